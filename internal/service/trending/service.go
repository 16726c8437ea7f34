package trending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/db"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/avast/retry-go/v4"
	"go-micro.dev/v4/logger"
)

// DefaultLimit is a size of the trending list
const DefaultLimit = 5

const (
	conflictAttempts = 3
	conflictDelay    = 10 * time.Millisecond
)

var ErrEmptyTerm = errors.New("search term is empty")

// Service counts non-empty searches per term and ranks terms by the count
type Service struct {
	db     Database
	images model.Images
}

func NewService(database Database, images model.Images) *Service {
	return &Service{db: database, images: images}
}

// Increment counts one more search of the term. The movie is stored as representative one only when the term is new.
// The count is incremented by the store; a create that lost the race to a concurrent one is retried as an increment.
func (s *Service) Increment(ctx context.Context, term string, mov model.Movie) (*model.SearchCounter, error) {
	normalized := model.NormalizeTerm(term)
	if normalized == "" {
		return nil, ErrEmptyTerm
	}

	var result *model.SearchCounter
	err := retry.Do(
		func() error {
			counter, err := s.increment(ctx, normalized, mov)
			if err != nil {
				return err
			}
			result = counter
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(conflictAttempts),
		retry.Delay(conflictDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, db.ErrDuplicate) }),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("update search count of '%s' failed: %w", normalized, err)
	}

	return result, nil
}

func (s *Service) increment(ctx context.Context, term string, mov model.Movie) (*model.SearchCounter, error) {
	counter, err := s.db.FindCounter(ctx, term)
	if err != nil {
		return nil, err
	}

	if counter != nil {
		count, err := s.db.IncrementCounter(ctx, counter.ID)
		if err != nil {
			return nil, err
		}
		counter.Count = count
		logger.Debugf("Search counter '%s': %d", term, count)
		return counter, nil
	}

	counter = &model.SearchCounter{
		SearchTerm: term,
		Count:      1,
		MovieID:    mov.ID,
		PosterURL:  s.images.URL(mov.PosterPath),
	}
	if err = s.db.CreateCounter(ctx, counter); err != nil {
		return nil, err
	}
	logger.Infof("New trending term '%s', movie %s", term, mov.ID)

	return counter, nil
}

// Top returns most searched terms ordered by count descending
func (s *Service) Top(ctx context.Context, limit int) ([]model.SearchCounter, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	list, err := s.db.GetTopCounters(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get trending terms failed: %w", err)
	}
	if len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}
