package db

import (
	"context"
	"fmt"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates unique keys of the collections
func (d Database) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	_, err := d.counters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "searchTerm", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("searchTerm_unique"),
	})
	if err != nil {
		return fmt.Errorf("create counters index failed: %w", err)
	}

	_, err = d.counters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("count_desc"),
	})
	if err != nil {
		return fmt.Errorf("create counters index failed: %w", err)
	}

	_, err = d.bookmarks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "movie_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("movie_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create bookmarks index failed: %w", err)
	}

	return nil
}

type counterMerge struct {
	keep   model.SearchCounter
	remove []string
}

// planCounterMerge groups counters by normalized term. Counters must be ordered by creation.
func planCounterMerge(counters []model.SearchCounter) []counterMerge {
	index := map[string]int{}
	var plan []counterMerge
	changed := map[int]bool{}

	for _, c := range counters {
		term := model.NormalizeTerm(c.SearchTerm)
		i, ok := index[term]
		if !ok {
			index[term] = len(plan)
			if term != c.SearchTerm {
				changed[len(plan)] = true
			}
			c.SearchTerm = term
			plan = append(plan, counterMerge{keep: c})
			continue
		}
		plan[i].keep.Count += c.Count
		plan[i].remove = append(plan[i].remove, c.ID)
		changed[i] = true
	}

	result := make([]counterMerge, 0, len(changed))
	for i := range plan {
		if changed[i] {
			result = append(result, plan[i])
		}
	}
	return result
}

// NormalizeCounters merges counters whose terms differ only by case or surrounding spaces
func (d Database) NormalizeCounters(ctx context.Context) (int, error) {
	counters, err := d.getAllCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("load counters failed: %w", err)
	}

	plan := planCounterMerge(counters)
	for _, m := range plan {
		if err = d.applyCounterMerge(ctx, m); err != nil {
			return 0, err
		}
	}
	return len(plan), nil
}

func (d Database) applyCounterMerge(ctx context.Context, m counterMerge) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	if len(m.remove) != 0 {
		filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: m.remove}}}}
		if _, err := d.counters.DeleteMany(ctx, filter); err != nil {
			return fmt.Errorf("remove merged counters of '%s' failed: %w", m.keep.SearchTerm, err)
		}
	}

	filter := bson.D{{Key: "_id", Value: m.keep.ID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "searchTerm", Value: m.keep.SearchTerm},
		{Key: "count", Value: m.keep.Count},
	}}}
	if _, err := d.counters.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("update counter '%s' failed: %w", m.keep.SearchTerm, err)
	}
	return nil
}

// DropLegacyBookmarkFlag removes stored is_bookmarked field, existence of the record is the flag
func (d Database) DropLegacyBookmarkFlag(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	filter := bson.D{{Key: "is_bookmarked", Value: bson.D{{Key: "$exists", Value: true}}}}
	update := bson.D{{Key: "$unset", Value: bson.D{{Key: "is_bookmarked", Value: ""}}}}
	_, err := d.bookmarks.UpdateMany(ctx, filter, update)
	return err
}
