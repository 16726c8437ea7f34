package model

import "time"

// Bookmark is a saved movie. Existence of the record means the movie is bookmarked.
type Bookmark struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	MovieID          ID        `bson:"movie_id" json:"movie_id"`
	Title            string    `bson:"title" json:"title"`
	PosterURL        string    `bson:"poster_url" json:"poster_url"`
	VoteAverage      float64   `bson:"vote_average" json:"vote_average"`
	ReleaseDate      string    `bson:"release_date" json:"release_date"`
	OriginalLanguage string    `bson:"original_language" json:"original_language"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// NewBookmark copies displayed fields of the movie
func NewBookmark(mov Movie, images Images) Bookmark {
	return Bookmark{
		MovieID:          mov.ID,
		Title:            mov.Title,
		PosterURL:        images.URL(mov.PosterPath),
		VoteAverage:      mov.VoteAverage,
		ReleaseDate:      mov.ReleaseDate,
		OriginalLanguage: mov.OriginalLanguage,
	}
}

func (b Bookmark) Rating() string {
	return FormatRating(b.VoteAverage)
}

func (b Bookmark) Year() string {
	return FormatYear(b.ReleaseDate)
}
