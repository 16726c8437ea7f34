package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/db"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/lock"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go-micro.dev/v4/logger"
)

const toggleLockTimeout = 30 * time.Second

// Action is an outcome of the toggle
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

type ToggleResult struct {
	Action   Action          `json:"action"`
	MovieID  model.ID        `json:"movie_id"`
	Bookmark *model.Bookmark `json:"bookmark,omitempty"`
}

// Bookmarked reports the flag after the toggle
func (r ToggleResult) Bookmarked() bool {
	return r.Action == ActionAdded
}

// Service is a source of truth of the bookmark flags
type Service struct {
	db     Database
	images model.Images
	cache  *statusCache
	lk     lock.Locker[model.ID]
}

func NewService(database Database, images model.Images) *Service {
	return &Service{
		db:     database,
		images: images,
		cache:  newStatusCache(),
		lk:     lock.NewLocker[model.ID](),
	}
}

// IsBookmarked checks existence of the bookmark. Any failure is reported as not bookmarked.
func (s *Service) IsBookmarked(ctx context.Context, movieID model.ID) bool {
	if bookmarked, ok := s.cache.Get(movieID); ok {
		return bookmarked
	}

	epoch := s.cache.Epoch()
	bookmark, err := s.db.FindBookmark(ctx, movieID)
	if err != nil {
		logger.Warnf("Check bookmark status of %s failed: %s", movieID, err)
		return false
	}

	if !s.cache.Put(movieID, bookmark != nil, epoch) {
		logger.Debugf("Bookmark status of %s changed while reading, keep the cached one", movieID)
		if bookmarked, ok := s.cache.Get(movieID); ok {
			return bookmarked
		}
	}
	return bookmark != nil
}

// Toggle removes the bookmark if it exists, otherwise creates it from the movie.
// The shared flag is changed only when the store write succeeded.
func (s *Service) Toggle(ctx context.Context, mov model.Movie) (*ToggleResult, error) {
	unlocker, err := lock.TimedLock(ctx, s.lk, mov.ID, toggleLockTimeout)
	if err != nil {
		return nil, fmt.Errorf("wait for bookmark of %s failed: %w", mov.ID, err)
	}
	defer unlocker.Unlock()

	result, err := s.toggle(ctx, mov)
	if err != nil {
		s.cache.Invalidate(mov.ID)
		logger.Errorf("Toggle bookmark of '%s' [ %s ] failed: %s", mov.Title, mov.ID, err)
		return nil, err
	}

	s.cache.Set(mov.ID, result.Bookmarked())
	logger.Infof("Bookmark of '%s' [ %s ] %s", mov.Title, mov.ID, result.Action)

	return result, nil
}

func (s *Service) toggle(ctx context.Context, mov model.Movie) (*ToggleResult, error) {
	existing, err := s.db.FindBookmark(ctx, mov.ID)
	if err != nil {
		return nil, fmt.Errorf("find bookmark failed: %w", err)
	}

	if existing != nil {
		if err = s.db.DeleteBookmark(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("delete bookmark failed: %w", err)
		}
		return &ToggleResult{Action: ActionRemoved, MovieID: mov.ID}, nil
	}

	bookmark := model.NewBookmark(mov, s.images)
	if err = s.db.AddBookmark(ctx, &bookmark); err != nil {
		if !errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("add bookmark failed: %w", err)
		}
		logger.Warnf("Bookmark of %s has been added concurrently", mov.ID)
	}

	return &ToggleResult{Action: ActionAdded, MovieID: mov.ID, Bookmark: &bookmark}, nil
}

// List returns all bookmarks in the store order
func (s *Service) List(ctx context.Context) ([]model.Bookmark, error) {
	epoch := s.cache.Epoch()
	list, err := s.db.GetBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks failed: %w", err)
	}

	for _, b := range list {
		s.cache.Put(b.MovieID, true, epoch)
	}

	return list, nil
}

// Subscribe returns channel of bookmark changes and function to unsubscribe
func (s *Service) Subscribe() (<-chan Change, func()) {
	return s.cache.Subscribe()
}

// Invalidate drops the cached flag, next check goes to the store
func (s *Service) Invalidate(movieID model.ID) {
	s.cache.Invalidate(movieID)
}
