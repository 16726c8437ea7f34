package bookmarks

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

// Database requires some methods for load and store bookmarks
type Database interface {
	FindBookmark(ctx context.Context, movieID model.ID) (*model.Bookmark, error)
	AddBookmark(ctx context.Context, bookmark *model.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error
	GetBookmarks(ctx context.Context) ([]model.Bookmark, error)
}
