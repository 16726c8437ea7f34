// Package session keeps view state of a single client: search input, result grid and details panel.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/debounce"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/bookmarks"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/details"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/movies"
	"github.com/sourcegraph/conc"
	"go-micro.dev/v4/logger"
)

type Catalog interface {
	movies.Catalog
	details.Catalog
}

type Bookmarks interface {
	details.Bookmarks
	Subscribe() (<-chan bookmarks.Change, func())
}

// Settings holds all dependencies of session
type Settings struct {
	Catalog          Catalog
	Trending         movies.Trending
	Bookmarks        Bookmarks
	DebounceInterval time.Duration
}

type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	movies  *movies.Service
	details *details.Service
	input   *debounce.Debouncer[string]

	unsubscribe func()

	mu   sync.Mutex
	text string
}

func New(settings Settings) *Session {
	s := &Session{
		movies: movies.NewService(movies.Settings{
			Catalog:  settings.Catalog,
			Trending: settings.Trending,
		}),
		details: details.NewService(settings.Catalog, settings.Bookmarks),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.input = debounce.New(settings.DebounceInterval, s.onTermChanged)

	changes, unsubscribe := settings.Bookmarks.Subscribe()
	s.unsubscribe = unsubscribe
	s.wg.Go(func() {
		for change := range changes {
			s.details.SetBookmarked(change.MovieID, change.Bookmarked)
		}
	})

	return s
}

// Start loads the first page of popular movies
func (s *Session) Start() {
	s.wg.Go(func() {
		s.movies.SetTerm(s.ctx, "")
	})
}

// Input handles raw search input, the query is issued after the input settles
func (s *Session) Input(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()

	s.input.Set(text)
}

// Text returns raw search input
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) onTermChanged(term string) {
	logger.Debugf("Search term settled: '%s'", term)
	s.movies.SetTerm(s.ctx, term)
}

// ChangePage switches result page, pages out of range are ignored
func (s *Session) ChangePage(page int) bool {
	return s.movies.ChangePage(s.ctx, page)
}

func (s *Session) State() movies.State {
	return s.movies.State()
}

func (s *Session) Pages() movies.Pagination {
	return s.movies.Pages(movies.DefaultPagesWindow)
}

func (s *Session) Select(id model.ID) {
	s.details.Select(id)
}

func (s *Session) CloseDetails() {
	s.details.Close()
}

func (s *Session) Details() details.Panel {
	return s.details.Current()
}

// Close cancels pending input and drops in-flight details
func (s *Session) Close() {
	s.input.Stop()
	s.details.Stop()
	s.cancel()
	s.unsubscribe()
	s.wg.Wait()
}
