package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/db"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDatabase struct {
	mu        sync.Mutex
	bookmarks []model.Bookmark
	nextID    int
	finds     int

	staleFind bool
	failFind  error
	failAdd   error
	failList  error

	// hold parks the next read after it has taken its snapshot, held is signalled then
	hold chan struct{}
	held chan struct{}
}

func (d *memDatabase) holdNextRead() (release func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.hold = make(chan struct{})
	d.held = make(chan struct{}, 1)
	return func() { close(d.hold) }
}

// park must be called with the lock held, it unlocks
func (d *memDatabase) park() {
	hold, held := d.hold, d.held
	d.hold = nil
	d.mu.Unlock()

	if hold != nil {
		held <- struct{}{}
		<-hold
	}
}

func (d *memDatabase) FindBookmark(ctx context.Context, movieID model.ID) (*model.Bookmark, error) {
	d.mu.Lock()

	d.finds++
	if d.failFind != nil {
		d.mu.Unlock()
		return nil, d.failFind
	}
	var found *model.Bookmark
	if !d.staleFind {
		for _, b := range d.bookmarks {
			if b.MovieID == movieID {
				b := b
				found = &b
				break
			}
		}
	}

	d.park()
	return found, nil
}

func (d *memDatabase) AddBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failAdd != nil {
		return d.failAdd
	}
	for _, b := range d.bookmarks {
		if b.MovieID == bookmark.MovieID {
			return db.ErrDuplicate
		}
	}
	d.nextID++
	bookmark.ID = fmt.Sprintf("doc-%d", d.nextID)
	d.bookmarks = append(d.bookmarks, *bookmark)
	return nil
}

func (d *memDatabase) DeleteBookmark(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, b := range d.bookmarks {
		if b.ID == id {
			d.bookmarks = append(d.bookmarks[:i], d.bookmarks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (d *memDatabase) GetBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	d.mu.Lock()

	if d.failList != nil {
		d.mu.Unlock()
		return nil, d.failList
	}
	list := append([]model.Bookmark{}, d.bookmarks...)

	d.park()
	return list, nil
}

func (d *memDatabase) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bookmarks)
}

var batman = model.Movie{
	ID:               268,
	Title:            "Batman",
	PosterPath:       "/batman.jpg",
	VoteAverage:      7.2,
	ReleaseDate:      "1989-06-23",
	OriginalLanguage: "en",
}

func TestService_ToggleTwiceRestoresState(t *testing.T) {
	for _, initiallyBookmarked := range []bool{false, true} {
		d := &memDatabase{}
		s := NewService(d, model.DefaultImages())
		ctx := context.Background()

		if initiallyBookmarked {
			_, err := s.Toggle(ctx, batman)
			require.NoError(t, err)
		}
		before := d.count()

		first, err := s.Toggle(ctx, batman)
		require.NoError(t, err)
		second, err := s.Toggle(ctx, batman)
		require.NoError(t, err)

		assert.NotEqual(t, first.Action, second.Action)
		assert.Equal(t, before, d.count())
		assert.Equal(t, initiallyBookmarked, s.IsBookmarked(ctx, batman.ID))
	}
}

func TestService_ToggleCopiesMovie(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())

	result, err := s.Toggle(context.Background(), batman)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	assert.True(t, result.Bookmarked())

	require.Equal(t, 1, d.count())
	b := d.bookmarks[0]
	assert.Equal(t, batman.ID, b.MovieID)
	assert.Equal(t, "Batman", b.Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/batman.jpg", b.PosterURL)
	assert.Equal(t, 7.2, b.VoteAverage)
	assert.Equal(t, "1989-06-23", b.ReleaseDate)
	assert.Equal(t, "en", b.OriginalLanguage)

	result, err = s.Toggle(context.Background(), batman)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
	assert.Empty(t, d.bookmarks)
}

func TestService_IsBookmarkedFailSafe(t *testing.T) {
	d := &memDatabase{bookmarks: []model.Bookmark{{ID: "x", MovieID: batman.ID}}, failFind: errors.New("timeout")}
	s := NewService(d, model.DefaultImages())

	assert.False(t, s.IsBookmarked(context.Background(), batman.ID))

	d.failFind = nil
	assert.True(t, s.IsBookmarked(context.Background(), batman.ID), "failure is not cached")
}

func TestService_IsBookmarkedCached(t *testing.T) {
	d := &memDatabase{bookmarks: []model.Bookmark{{ID: "x", MovieID: batman.ID}}}
	s := NewService(d, model.DefaultImages())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, s.IsBookmarked(ctx, batman.ID))
		assert.False(t, s.IsBookmarked(ctx, 1))
	}
	assert.Equal(t, 2, d.finds)

	s.Invalidate(batman.ID)
	assert.True(t, s.IsBookmarked(ctx, batman.ID))
	assert.Equal(t, 3, d.finds)
}

func TestService_ToggleFailureKeepsFlag(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())
	ctx := context.Background()

	assert.False(t, s.IsBookmarked(ctx, batman.ID))

	d.failAdd = errors.New("write failed")
	_, err := s.Toggle(ctx, batman)
	require.Error(t, err)
	assert.False(t, s.IsBookmarked(ctx, batman.ID))
	assert.Empty(t, d.bookmarks)
}

func TestService_ToggleConcurrentAdd(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())

	// record is created by another client between our check and write
	d.staleFind = true
	other := model.NewBookmark(batman, model.DefaultImages())
	require.NoError(t, d.AddBookmark(context.Background(), &other))

	result, err := s.Toggle(context.Background(), batman)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	assert.Equal(t, 1, d.count())
	assert.True(t, s.IsBookmarked(context.Background(), batman.ID))
}

func TestService_ConcurrentTogglesSerialized(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(context.Background(), batman)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, d.count())
	assert.False(t, s.IsBookmarked(context.Background(), batman.ID))
}

func TestService_Subscribe(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())

	changes, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Toggle(context.Background(), batman)
	require.NoError(t, err)
	_, err = s.Toggle(context.Background(), batman)
	require.NoError(t, err)

	for _, expected := range []bool{true, false} {
		select {
		case c := <-changes:
			assert.Equal(t, Change{MovieID: batman.ID, Bookmarked: expected}, c)
		case <-time.After(time.Second):
			t.Fatal("change is not delivered")
		}
	}

	cancel()
	_, ok := <-changes
	assert.False(t, ok)
}

func TestService_List(t *testing.T) {
	d := &memDatabase{}
	s := NewService(d, model.DefaultImages())
	ctx := context.Background()

	_, err := s.Toggle(ctx, batman)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, model.Movie{ID: 1, Title: "Alien"})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, batman.ID, list[0].MovieID)
	assert.Equal(t, model.ID(1), list[1].MovieID)
	assert.Empty(t, list[1].PosterURL)

	d.failList = errors.New("unavailable")
	_, err = s.List(ctx)
	assert.Error(t, err)
}

func waitHeld(t *testing.T, d *memDatabase) {
	select {
	case <-d.held:
	case <-time.After(time.Second):
		t.Fatal("read is not started")
	}
}

func TestService_ReadDoesNotOverwriteToggle(t *testing.T) {
	type testCase struct {
		name      string
		initially bool
		read      func(s *Service)
	}
	testCases := []testCase{
		{
			name:      "status check before add",
			initially: false,
			read:      func(s *Service) { s.IsBookmarked(context.Background(), batman.ID) },
		},
		{
			name:      "status check before remove",
			initially: true,
			read:      func(s *Service) { s.IsBookmarked(context.Background(), batman.ID) },
		},
		{
			name:      "list before remove",
			initially: true,
			read:      func(s *Service) { _, _ = s.List(context.Background()) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := &memDatabase{}
			s := NewService(d, model.DefaultImages())
			ctx := context.Background()

			if tc.initially {
				other := model.NewBookmark(batman, model.DefaultImages())
				require.NoError(t, d.AddBookmark(ctx, &other))
			}

			release := d.holdNextRead()
			done := make(chan struct{})
			go func() {
				defer close(done)
				tc.read(s)
			}()
			waitHeld(t, d)

			result, err := s.Toggle(ctx, batman)
			require.NoError(t, err)
			assert.Equal(t, !tc.initially, result.Bookmarked())

			release()
			<-done

			finds := d.finds
			assert.Equal(t, !tc.initially, s.IsBookmarked(ctx, batman.ID))
			assert.Equal(t, finds, d.finds, "flag is served from the cache")
		})
	}
}
