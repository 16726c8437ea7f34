package db

import (
	"context"
	"errors"
	"time"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (d Database) FindBookmark(ctx context.Context, movieID model.ID) (*model.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	result := d.bookmarks.FindOne(ctx, bson.D{{Key: "movie_id", Value: movieID}})
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}

	if result.Err() != nil {
		return nil, result.Err()
	}

	bookmark := model.Bookmark{}
	if err := result.Decode(&bookmark); err != nil {
		return nil, err
	}

	return &bookmark, nil
}

// AddBookmark inserts new bookmark. ErrDuplicate is returned when the movie is already bookmarked.
func (d Database) AddBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	if bookmark.ID == "" {
		bookmark.ID = newDocumentID()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}
	_, err := d.bookmarks.InsertOne(ctx, bookmark)
	return convertWriteError(err)
}

func (d Database) DeleteBookmark(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	_, err := d.bookmarks.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// GetBookmarks returns all bookmarks in natural order of the collection
func (d Database) GetBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	cur, err := d.bookmarks.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	results := []model.Bookmark{}
	if err = cur.All(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}
