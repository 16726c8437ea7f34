package movies

// DefaultPagesWindow is a number of page buttons shown around the current page
const DefaultPagesWindow = 5

type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Pages   []int `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// Visible reports whether pagination should be rendered at all
func (p Pagination) Visible() bool {
	return p.Total > 1
}

func makePagination(current, total, window int) Pagination {
	if window <= 0 {
		window = DefaultPagesWindow
	}
	if total < 1 {
		total = 1
	}

	start := max(1, current-window/2)
	end := min(total, start+window-1)

	p := Pagination{
		Current: current,
		Total:   total,
		Pages:   make([]int, 0, window),
		HasPrev: current > 1,
		HasNext: current < total,
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

// Pages returns pagination of the current session
func (s *Service) Pages(window int) Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()

	return makePagination(s.session.Page, s.session.TotalPages, window)
}
