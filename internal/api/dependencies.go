package api

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/bookmarks"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/details"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/movies"
)

type Session interface {
	Input(text string)
	Text() string
	ChangePage(page int) bool
	State() movies.State
	Pages() movies.Pagination
	Select(id model.ID)
	CloseDetails()
	Details() details.Panel
}

type Trending interface {
	Top(ctx context.Context, limit int) ([]model.SearchCounter, error)
}

type Bookmarks interface {
	IsBookmarked(ctx context.Context, movieID model.ID) bool
	Toggle(ctx context.Context, mov model.Movie) (*bookmarks.ToggleResult, error)
	List(ctx context.Context) ([]model.Bookmark, error)
}
