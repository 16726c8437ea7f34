package api

import (
	"context"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/details"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/movies"
)

// movieCard is a grid item ready for display
type movieCard struct {
	model.Movie
	PosterURL  string `json:"poster_url"`
	Rating     string `json:"rating"`
	Year       string `json:"year"`
	Language   string `json:"language"`
	Bookmarked bool   `json:"bookmarked"`
}

type sessionView struct {
	Text         string             `json:"text"`
	Term         string             `json:"term"`
	RequestID    uint64             `json:"request_id"`
	Loading      bool               `json:"loading"`
	ErrorMessage string             `json:"error_message,omitempty"`
	ErrorKind    movies.ErrorKind   `json:"error_kind,omitempty"`
	Movies       []movieCard        `json:"movies"`
	Pagination   *movies.Pagination `json:"pagination,omitempty"`
}

type detailsView struct {
	details.Panel
	PosterURL  string   `json:"poster_url,omitempty"`
	Rating     string   `json:"rating,omitempty"`
	Year       string   `json:"year,omitempty"`
	Language   string   `json:"language,omitempty"`
	Runtime    string   `json:"runtime,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	TrailerURL string   `json:"trailer_url,omitempty"`
}

const youtubeWatchURL = "https://www.youtube.com/watch?v="

func (h *Handler) makeCard(ctx context.Context, mov model.Movie) movieCard {
	return movieCard{
		Movie:      mov,
		PosterURL:  h.images.Poster(mov.PosterPath),
		Rating:     mov.Rating(),
		Year:       mov.Year(),
		Language:   mov.Language(),
		Bookmarked: h.bookmarks.IsBookmarked(ctx, mov.ID),
	}
}

func (h *Handler) makeSessionView(ctx context.Context) sessionView {
	st := h.session.State()
	v := sessionView{
		Text:         h.session.Text(),
		Term:         st.Term,
		RequestID:    st.RequestID,
		Loading:      st.Loading,
		ErrorMessage: st.ErrorMessage,
		ErrorKind:    st.ErrorKind,
		Movies:       make([]movieCard, 0, len(st.Results)),
	}
	for _, mov := range st.Results {
		v.Movies = append(v.Movies, h.makeCard(ctx, mov))
	}
	if p := h.session.Pages(); p.Visible() && st.ErrorKind == movies.ErrorNone {
		v.Pagination = &p
	}
	return v
}

func (h *Handler) makeDetailsView() detailsView {
	v := detailsView{Panel: h.session.Details()}
	if d := v.Details; d != nil {
		v.PosterURL = h.images.Poster(d.PosterPath)
		v.Rating = d.Rating()
		v.Year = d.Year()
		v.Language = d.LanguageText()
		v.Runtime = d.RuntimeText()
		v.Genres = d.GenreNames()
		if d.Trailer != nil {
			v.TrailerURL = youtubeWatchURL + d.Trailer.Key
		}
	}
	return v
}
