package details

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

type Catalog interface {
	GetDetails(ctx context.Context, id model.ID) (*catalog.Details, error)
}

type Bookmarks interface {
	IsBookmarked(ctx context.Context, movieID model.ID) bool
}
