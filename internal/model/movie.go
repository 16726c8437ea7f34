package model

import (
	"strconv"
	"strings"
)

const notAvailable = "N/A"

// Movie is a single catalog result. Values are never modified after they are received from the catalog.
type Movie struct {
	ID               ID      `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// Rating returns vote average formatted for display
func (m Movie) Rating() string {
	return FormatRating(m.VoteAverage)
}

// Year returns the release year for display
func (m Movie) Year() string {
	return FormatYear(m.ReleaseDate)
}

// Language returns the original language for display
func (m Movie) Language() string {
	if m.OriginalLanguage == "" {
		return notAvailable
	}
	return m.OriginalLanguage
}

func FormatRating(vote float64) string {
	if vote == 0 {
		return notAvailable
	}
	return strconv.FormatFloat(vote, 'f', 1, 64)
}

func FormatYear(releaseDate string) string {
	year, _, _ := strings.Cut(releaseDate, "-")
	if year == "" {
		return notAvailable
	}
	return year
}
