package trending

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

// Database requires some methods for load and store search counters
type Database interface {
	FindCounter(ctx context.Context, term string) (*model.SearchCounter, error)
	CreateCounter(ctx context.Context, counter *model.SearchCounter) error
	IncrementCounter(ctx context.Context, id string) (int64, error)
	GetTopCounters(ctx context.Context, limit int64) ([]model.SearchCounter, error)
}
