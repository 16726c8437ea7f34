package details

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu      sync.Mutex
	details map[model.ID]*catalog.Details
	gates   map[model.ID]chan struct{}
	started chan model.ID
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		details: map[model.ID]*catalog.Details{},
		gates:   map[model.ID]chan struct{}{},
		started: make(chan model.ID, 16),
	}
}

func (c *fakeCatalog) GetDetails(ctx context.Context, id model.ID) (*catalog.Details, error) {
	c.mu.Lock()
	d := c.details[id]
	gate := c.gates[id]
	c.mu.Unlock()

	c.started <- id
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d == nil {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

func (c *fakeCatalog) gate(id model.ID) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.gates[id] = ch
	return ch
}

type fakeBookmarks map[model.ID]bool

func (b fakeBookmarks) IsBookmarked(ctx context.Context, movieID model.ID) bool {
	return b[movieID]
}

func batmanDetails() *catalog.Details {
	d := &catalog.Details{
		Movie:    model.Movie{ID: 268, Title: "Batman"},
		Overview: "The Dark Knight of Gotham City",
		Runtime:  126,
		Genres:   []model.Genre{{ID: 14, Name: "Fantasy"}, {ID: 28, Name: "Action"}},
	}
	d.Credits.Cast = []model.CastMember{
		{Name: "Michael Keaton", Character: "Batman"},
		{Name: "Jack Nicholson", Character: "Joker"},
		{Name: "Kim Basinger", Character: "Vicki Vale"},
		{Name: "Robert Wuhl", Character: "Alexander Knox"},
		{Name: "Pat Hingle", Character: "Gordon"},
		{Name: "Billy Dee Williams", Character: "Harvey Dent"},
	}
	d.Videos.Results = []catalog.Video{
		{Key: "teaser", Site: "YouTube", Type: "Teaser"},
		{Key: "vimeo", Site: "Vimeo", Type: "Trailer"},
		{Key: "first", Site: "YouTube", Type: "Trailer"},
		{Key: "second", Site: "YouTube", Type: "Trailer"},
	}
	return d
}

func TestService_Fetch(t *testing.T) {
	cat := newFakeCatalog()
	cat.details[268] = batmanDetails()
	s := NewService(cat, fakeBookmarks{268: true})
	defer s.Stop()

	result := s.Fetch(context.Background(), 268)
	require.NoError(t, result.Err)
	assert.True(t, result.Bookmarked)

	d := result.Details
	assert.Equal(t, "Batman", d.Title)
	assert.Equal(t, "2h 6m", d.RuntimeText())
	assert.Equal(t, []string{"Fantasy", "Action"}, d.GenreNames())
	require.Len(t, d.Cast, model.MaxCast)
	assert.Equal(t, "Michael Keaton", d.Cast[0].Name)
	assert.Equal(t, "Pat Hingle", d.Cast[4].Name)
	require.NotNil(t, d.Trailer)
	assert.Equal(t, "first", d.Trailer.Key)
}

func TestService_FetchWithoutTrailer(t *testing.T) {
	cat := newFakeCatalog()
	d := batmanDetails()
	d.Videos.Results = []catalog.Video{{Key: "teaser", Site: "YouTube", Type: "Teaser"}}
	d.Credits.Cast = d.Credits.Cast[:2]
	cat.details[268] = d
	s := NewService(cat, fakeBookmarks{})
	defer s.Stop()

	result := s.Fetch(context.Background(), 268)
	require.NoError(t, result.Err)
	assert.Nil(t, result.Details.Trailer)
	assert.Len(t, result.Details.Cast, 2)
}

func TestService_FetchFailureKeepsBookmarkFlag(t *testing.T) {
	cat := newFakeCatalog()
	s := NewService(cat, fakeBookmarks{1: true})
	defer s.Stop()

	result := s.Fetch(context.Background(), 1)
	assert.True(t, errors.Is(result.Err, catalog.ErrNotFound))
	assert.Nil(t, result.Details)
	assert.True(t, result.Bookmarked)
}

func TestService_SelectLoadingThenReady(t *testing.T) {
	cat := newFakeCatalog()
	cat.details[268] = batmanDetails()
	gate := cat.gate(268)
	s := NewService(cat, fakeBookmarks{268: true})
	defer s.Stop()

	assert.Equal(t, StatusIdle, s.Current().Status)

	s.Select(268)
	<-cat.started
	assert.Equal(t, StatusLoading, s.Current().Status)
	assert.Equal(t, model.ID(268), s.Current().MovieID)

	close(gate)
	assert.Eventually(t, func() bool { return s.Current().Status == StatusReady }, time.Second, 5*time.Millisecond)
	p := s.Current()
	assert.True(t, p.Bookmarked)
	assert.Equal(t, "Batman", p.Details.Title)
}

func TestService_SelectUnavailable(t *testing.T) {
	cat := newFakeCatalog()
	s := NewService(cat, fakeBookmarks{})
	defer s.Stop()

	s.Select(404)
	assert.Eventually(t, func() bool { return s.Current().Status == StatusUnavailable }, time.Second, 5*time.Millisecond)
	assert.Nil(t, s.Current().Details)
}

func TestService_StaleSelectionDropped(t *testing.T) {
	cat := newFakeCatalog()
	cat.details[268] = batmanDetails()
	cat.details[1] = &catalog.Details{Movie: model.Movie{ID: 1, Title: "Alien"}}
	slow := cat.gate(268)
	s := NewService(cat, fakeBookmarks{})
	defer s.Stop()

	s.Select(268)
	<-cat.started
	s.Select(1)
	assert.Eventually(t, func() bool { return s.Current().Status == StatusReady }, time.Second, 5*time.Millisecond)
	close(slow)

	time.Sleep(20 * time.Millisecond)
	p := s.Current()
	assert.Equal(t, model.ID(1), p.MovieID)
	assert.Equal(t, "Alien", p.Details.Title)
}

func TestService_CloseDropsInFlight(t *testing.T) {
	cat := newFakeCatalog()
	cat.details[268] = batmanDetails()
	gate := cat.gate(268)
	s := NewService(cat, fakeBookmarks{})
	defer s.Stop()

	s.Select(268)
	<-cat.started
	s.Close()
	close(gate)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Panel{Status: StatusIdle}, s.Current())
}

func TestService_SetBookmarked(t *testing.T) {
	cat := newFakeCatalog()
	cat.details[268] = batmanDetails()
	gate := cat.gate(268)
	s := NewService(cat, fakeBookmarks{})
	defer s.Stop()

	s.SetBookmarked(268, true)
	assert.False(t, s.Current().Bookmarked, "nothing is selected")

	s.Select(268)
	<-cat.started
	s.SetBookmarked(268, true)
	s.SetBookmarked(1, false)
	close(gate)

	assert.Eventually(t, func() bool { return s.Current().Status == StatusReady }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Current().Bookmarked, "toggle made while loading wins")
}
