package catalog

import (
	"strings"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

// Page is a single page of catalog results
type Page struct {
	Results    []model.Movie
	TotalPages int
}

type pagePayload struct {
	Page       int           `json:"page"`
	Results    []model.Movie `json:"results"`
	TotalPages int           `json:"total_pages"`

	// Response and Error are set when the catalog reports that nothing matched
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *pagePayload) noResults() bool {
	return strings.EqualFold(p.Response, "false")
}

// Video is an entry of the videos sub-resource
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Details is an extended movie record with embedded credits and videos
type Details struct {
	model.Movie

	Overview string        `json:"overview"`
	Runtime  int           `json:"runtime"`
	Genres   []model.Genre `json:"genres"`

	Credits struct {
		Cast []model.CastMember `json:"cast"`
	} `json:"credits"`

	Videos struct {
		Results []Video `json:"results"`
	} `json:"videos"`
}
