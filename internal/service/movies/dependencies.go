package movies

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

// Catalog is a paginated source of movies
type Catalog interface {
	Discover(ctx context.Context, page int) (*catalog.Page, error)
	Search(ctx context.Context, query string, page int) (*catalog.Page, error)
}

// Trending counts successful searches
type Trending interface {
	Increment(ctx context.Context, term string, mov model.Movie) (*model.SearchCounter, error)
}
