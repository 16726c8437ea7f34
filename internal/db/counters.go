package db

import (
	"context"
	"errors"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindCounter looks up the counter by exact normalized term
func (d Database) FindCounter(ctx context.Context, term string) (*model.SearchCounter, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	result := d.counters.FindOne(ctx, bson.D{{Key: "searchTerm", Value: term}})
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}

	if result.Err() != nil {
		return nil, result.Err()
	}

	counter := model.SearchCounter{}
	if err := result.Decode(&counter); err != nil {
		return nil, err
	}

	return &counter, nil
}

// CreateCounter inserts new counter. ErrDuplicate is returned when the term is already counted.
func (d Database) CreateCounter(ctx context.Context, counter *model.SearchCounter) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	if counter.ID == "" {
		counter.ID = newDocumentID()
	}
	_, err := d.counters.InsertOne(ctx, counter)
	return convertWriteError(err)
}

// IncrementCounter adds one to the counter and returns stored value after the update
func (d Database) IncrementCounter(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "count", Value: 1}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	result := d.counters.FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return 0, result.Err()
	}

	counter := model.SearchCounter{}
	if err := result.Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Count, nil
}

// GetTopCounters returns counters with the highest count, ties are ordered by creation
func (d Database) GetTopCounters(ctx context.Context, limit int64) ([]model.SearchCounter, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	cur, err := d.counters.Find(ctx, bson.D{}, topCountersOptions(limit))
	if err != nil {
		return nil, err
	}

	results := []model.SearchCounter{}
	if err = cur.All(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func (d Database) getAllCounters(ctx context.Context) ([]model.SearchCounter, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := d.counters.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var results []model.SearchCounter
	if err = cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
