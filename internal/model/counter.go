package model

import "strings"

// SearchCounter is a number of non-empty searches made for the normalized term
type SearchCounter struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	SearchTerm string `bson:"searchTerm" json:"searchTerm"`
	Count      int64  `bson:"count" json:"count"`
	MovieID    ID     `bson:"movie_id" json:"movie_id"`
	PosterURL  string `bson:"poster_url" json:"poster_url"`
}

// NormalizeTerm makes the key of the counter record
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
