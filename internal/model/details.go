package model

import (
	"strconv"
	"strings"
)

// MaxCast is a number of cast entries shown on the details panel
const MaxCast = 5

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

type Trailer struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// MovieDetails is an extended record of a single movie
type MovieDetails struct {
	Movie

	Overview string  `json:"overview,omitempty"`
	Runtime  int     `json:"runtime,omitempty"`
	Genres   []Genre `json:"genres,omitempty"`

	// Cast holds first MaxCast entries in catalog order
	Cast []CastMember `json:"cast,omitempty"`

	// Trailer is nil when the catalog has no YouTube trailer for the movie
	Trailer *Trailer `json:"trailer,omitempty"`
}

// RuntimeText returns runtime for display
func (d MovieDetails) RuntimeText() string {
	if d.Runtime <= 0 {
		return notAvailable
	}
	return strconv.Itoa(d.Runtime/60) + "h " + strconv.Itoa(d.Runtime%60) + "m"
}

// LanguageText returns the original language code upper-cased for display
func (d MovieDetails) LanguageText() string {
	if d.OriginalLanguage == "" {
		return notAvailable
	}
	return strings.ToUpper(d.OriginalLanguage)
}

func (d MovieDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}
