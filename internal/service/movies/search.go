package movies

import (
	"context"
	"errors"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go-micro.dev/v4/logger"
)

// Search issues a single catalog query. Empty term means discover mode.
// Returns false when the response has been superseded by a later query and discarded.
func (s *Service) Search(ctx context.Context, term string, page int) bool {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.session.RequestID++
	requestID := s.session.RequestID
	s.session.Term = term
	s.session.Loading = true
	s.mu.Unlock()

	l := logger.Fields(map[string]interface{}{
		"op":      "search",
		"request": requestID,
		"term":    term,
		"page":    page,
	})

	result, err := s.query(ctx, term, page)

	s.mu.Lock()
	if requestID != s.session.RequestID {
		s.stale++
		s.mu.Unlock()
		l.Log(logger.DebugLevel, "Stale response discarded")
		return false
	}
	s.apply(l, page, result, err)
	s.mu.Unlock()

	if err == nil && len(result.Results) != 0 && model.NormalizeTerm(term) != "" {
		if _, err = s.trending.Increment(ctx, term, result.Results[0]); err != nil {
			l.Logf(logger.WarnLevel, "Update search count failed: %s", err)
		}
	}

	return true
}

func (s *Service) query(ctx context.Context, term string, page int) (*catalog.Page, error) {
	if term == "" {
		return s.cat.Discover(ctx, page)
	}
	return s.cat.Search(ctx, term, page)
}

// apply must be called with the lock held
func (s *Service) apply(l logger.Logger, page int, result *catalog.Page, err error) {
	s.session.Loading = false

	var noResults *catalog.NoResultsError
	switch {
	case errors.As(err, &noResults):
		s.session.ErrorKind = ErrorNoResults
		s.session.ErrorMessage = noResults.Message
		if s.session.ErrorMessage == "" {
			s.session.ErrorMessage = NoResultsMessage
		}
		s.session.Results = []model.Movie{}
		l.Logf(logger.InfoLevel, "Nothing found: %s", s.session.ErrorMessage)

	case err != nil:
		s.session.ErrorKind = ErrorTransport
		s.session.ErrorMessage = FetchErrorMessage
		s.session.Results = []model.Movie{}
		l.Logf(logger.ErrorLevel, "Error fetching movies: %s", err)

	default:
		s.session.ErrorKind = ErrorNone
		s.session.ErrorMessage = ""
		s.session.Results = result.Results
		s.session.TotalPages = result.TotalPages
		if s.session.TotalPages < 1 {
			s.session.TotalPages = 1
		}
		s.session.Page = page
		l.Logf(logger.InfoLevel, "Got %d results, total pages %d", len(result.Results), result.TotalPages)
	}
}

// SetTerm starts a query for the new debounced term from the first page
func (s *Service) SetTerm(ctx context.Context, term string) bool {
	return s.Search(ctx, term, 1)
}

// ChangePage queries another page of the current term. Pages out of [1, total pages] are ignored.
func (s *Service) ChangePage(ctx context.Context, page int) bool {
	s.mu.Lock()
	if page < 1 || page > s.session.TotalPages {
		s.mu.Unlock()
		return false
	}
	term := s.session.Term
	s.mu.Unlock()

	s.Search(ctx, term, page)
	return true
}

// Refresh repeats the query of the current session
func (s *Service) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	term, page := s.session.Term, s.session.Page
	s.mu.Unlock()

	return s.Search(ctx, term, page)
}
