package movies

import (
	"sync"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

const (
	// FetchErrorMessage is shown when the catalog is unreachable
	FetchErrorMessage = "Error fetching movies. Please try again later."

	// NoResultsMessage is shown when the catalog reports no matches without own message
	NoResultsMessage = "Error fetching movies"
)

// ErrorKind tells where the displayed message came from
type ErrorKind string

const (
	ErrorNone      ErrorKind = ""
	ErrorTransport ErrorKind = "transport"
	ErrorNoResults ErrorKind = "no-results"
)

// State is a snapshot of the search session
type State struct {
	Term         string        `json:"term"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	RequestID    uint64        `json:"request_id"`
	Loading      bool          `json:"loading"`
	ErrorMessage string        `json:"error_message,omitempty"`
	ErrorKind    ErrorKind     `json:"error_kind,omitempty"`
	Results      []model.Movie `json:"results"`
}

// Settings holds all dependencies of service
type Settings struct {
	Catalog  Catalog
	Trending Trending
}

// Service keeps the current search session. Every query gets the next request id,
// a response is applied only while its id is the latest one.
type Service struct {
	cat      Catalog
	trending Trending

	mu      sync.Mutex
	session State
	stale   uint64
}

func NewService(settings Settings) *Service {
	return &Service{
		cat:      settings.Catalog,
		trending: settings.Trending,
		session: State{
			Page:       1,
			TotalPages: 1,
			Results:    []model.Movie{},
		},
	}
}

// State returns copy of the current session
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.session
	st.Results = append([]model.Movie(nil), s.session.Results...)
	if st.Results == nil {
		st.Results = []model.Movie{}
	}
	return st
}

// StaleResponses returns number of discarded responses
func (s *Service) StaleResponses() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}
