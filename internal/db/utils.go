package db

import (
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when the record with the same unique key already exists
var ErrDuplicate = errors.New("record already exists")

// newDocumentID returns time-ordered identifier, so sorting by _id follows insertion order
func newDocumentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func convertWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

func topCountersOptions(limit int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
}
