package details

import (
	"context"
	"sync"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/sourcegraph/conc"
	"go-micro.dev/v4/logger"
)

// Status of the details panel
type Status string

const (
	StatusIdle        Status = "idle"
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// Result is an outcome of a single fetch
type Result struct {
	Details    *model.MovieDetails
	Err        error
	Bookmarked bool
}

// Panel is a state of the details panel of the selected movie
type Panel struct {
	Status     Status              `json:"status"`
	MovieID    model.ID            `json:"movie_id,omitempty"`
	Details    *model.MovieDetails `json:"details,omitempty"`
	Bookmarked bool                `json:"bookmarked"`
}

// Service fetches extended records of the selected movie. Records are never cached between selections.
type Service struct {
	cat       Catalog
	bookmarks Bookmarks

	ctx    context.Context
	stop   context.CancelFunc
	wg     conc.WaitGroup
	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	panel  Panel

	// flagChanged is set when the bookmark was toggled while loading
	flagChanged bool
}

func NewService(cat Catalog, bookmarks Bookmarks) *Service {
	s := &Service{
		cat:       cat,
		bookmarks: bookmarks,
		panel:     Panel{Status: StatusIdle},
	}
	s.ctx, s.stop = context.WithCancel(context.Background())
	return s
}

// Fetch loads details and bookmark flag of the movie concurrently. The flag does not depend on details outcome.
func (s *Service) Fetch(ctx context.Context, id model.ID) Result {
	var result Result
	var wg conc.WaitGroup

	wg.Go(func() {
		d, err := s.cat.GetDetails(ctx, id)
		if err != nil {
			result.Err = err
			return
		}
		result.Details = convertDetails(d)
	})
	wg.Go(func() {
		result.Bookmarked = s.bookmarks.IsBookmarked(ctx, id)
	})
	wg.Wait()

	return result
}

// Select starts loading of the movie details, previous selection result will be dropped
func (s *Service) Select(id model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	token := s.token
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.panel = Panel{Status: StatusLoading, MovieID: id}
	s.flagChanged = false

	s.wg.Go(func() {
		defer cancel()
		result := s.Fetch(ctx, id)
		s.apply(token, id, result)
	})
}

func (s *Service) apply(token uint64, id model.ID, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		logger.Debugf("Details of %s dropped, selection changed", id)
		return
	}

	if !s.flagChanged {
		s.panel.Bookmarked = result.Bookmarked
	}
	if result.Err != nil {
		logger.Warnf("Fetch details of %s failed: %s", id, result.Err)
		s.panel.Status = StatusUnavailable
		return
	}
	s.panel.Status = StatusReady
	s.panel.Details = result.Details
}

// Close deselects the movie, in-flight result is dropped
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token++
	s.panel = Panel{Status: StatusIdle}
}

// Current returns state of the panel
func (s *Service) Current() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel
}

// SetBookmarked updates the flag when the movie is shown on the panel
func (s *Service) SetBookmarked(id model.ID, bookmarked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.panel.Status != StatusIdle && s.panel.MovieID == id {
		s.panel.Bookmarked = bookmarked
		s.flagChanged = true
	}
}

// Stop closes the panel and waits for background fetches
func (s *Service) Stop() {
	s.Close()
	s.stop()
	s.wg.Wait()
}
