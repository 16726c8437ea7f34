package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Version is a current schema version of the database
const Version = 2

// Collections holds names of document collections
type Collections struct {
	Counters  string
	Bookmarks string
}

type Database struct {
	cli       *mongo.Client
	db        *mongo.Database
	counters  *mongo.Collection
	bookmarks *mongo.Collection
	meta      *mongo.Collection
}

const databaseTimeout = 40 * time.Second

const metaCollection = "meta"

// Connect creates database connection
func Connect(uri, name string, collections Collections) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), databaseTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	if err = cli.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	mdb := cli.Database(name)
	db := &Database{
		cli:       cli,
		db:        mdb,
		counters:  mdb.Collection(collections.Counters),
		bookmarks: mdb.Collection(collections.Bookmarks),
		meta:      mdb.Collection(metaCollection),
	}

	return db, nil
}

// Disconnect closes connection to the database
func (d Database) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), databaseTimeout)
	defer cancel()

	return d.cli.Disconnect(ctx)
}
