// Package api exposes the search session and the shared services over HTTP
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/trending"
	"github.com/gorilla/mux"
	"go-micro.dev/v4/logger"
)

// Settings holds all dependencies of the handler
type Settings struct {
	Session   Session
	Trending  Trending
	Bookmarks Bookmarks
	Images    model.Images
}

type Handler struct {
	session   Session
	trending  Trending
	bookmarks Bookmarks
	images    model.Images
}

func New(settings Settings) *Handler {
	return &Handler{
		session:   settings.Session,
		trending:  settings.Trending,
		bookmarks: settings.Bookmarks,
		images:    settings.Images,
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Router builds routes of all views
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	s := r.PathPrefix("/session").Subrouter()
	s.HandleFunc("", h.GetSession).Methods(http.MethodGet)
	s.HandleFunc("/input", h.Input).Methods(http.MethodPost)
	s.HandleFunc("/page", h.ChangePage).Methods(http.MethodPost)
	s.HandleFunc("/select/{id:[0-9]+}", h.Select).Methods(http.MethodPost)
	s.HandleFunc("/select", h.CloseDetails).Methods(http.MethodDelete)
	s.HandleFunc("/details", h.GetDetails).Methods(http.MethodGet)

	r.HandleFunc("/trending", h.GetTrending).Methods(http.MethodGet)

	b := r.PathPrefix("/bookmarks").Subrouter()
	b.HandleFunc("", h.ListBookmarks).Methods(http.MethodGet)
	b.HandleFunc("/toggle", h.ToggleBookmark).Methods(http.MethodPost)
	b.HandleFunc("/{id:[0-9]+}", h.GetBookmark).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Encode response failed: %s", err)
	}
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

func movieID(r *http.Request) (model.ID, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return 0, errors.New("movie id is missing")
	}
	return model.ParseID(raw)
}

// GetSession returns the search state with the result grid and pagination
// GET /session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.makeSessionView(r.Context()))
}

// Input passes raw text of the search field, the query is issued once the input settles
// POST /session/input
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.session.Input(req.Text)
	w.WriteHeader(http.StatusAccepted)
}

// ChangePage loads another page of the current term
// POST /session/page
func (h *Handler) ChangePage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.session.ChangePage(req.Page) {
		logger.Debugf("Page %d is out of range, ignored", req.Page)
	}
	writeJSON(w, http.StatusOK, h.makeSessionView(r.Context()))
}

// Select opens the details panel of the movie
// POST /session/select/{id}
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		jsonError(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	h.session.Select(id)
	writeJSON(w, http.StatusAccepted, h.makeDetailsView())
}

// CloseDetails closes the details panel
// DELETE /session/select
func (h *Handler) CloseDetails(w http.ResponseWriter, r *http.Request) {
	h.session.CloseDetails()
	w.WriteHeader(http.StatusNoContent)
}

// GetDetails returns state of the details panel
// GET /session/details
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.makeDetailsView())
}

// GetTrending returns the most searched terms, the list is empty when the store is unavailable
// GET /trending
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	top, err := h.trending.Top(r.Context(), trending.DefaultLimit)
	if err != nil {
		logger.Errorf("Load trending failed: %s", err)
		top = []model.SearchCounter{}
	}
	writeJSON(w, http.StatusOK, top)
}

// ListBookmarks returns all bookmarks, the list is empty when the store is unavailable
// GET /bookmarks
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookmarks.List(r.Context())
	if err != nil {
		logger.Errorf("Load bookmarks failed: %s", err)
		list = []model.Bookmark{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBookmark returns the bookmark flag of the movie
// GET /bookmarks/{id}
func (h *Handler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		jsonError(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": h.bookmarks.IsBookmarked(r.Context(), id)})
}

// ToggleBookmark adds the movie to bookmarks or removes it
// POST /bookmarks/toggle
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var mov model.Movie
	if err := json.NewDecoder(r.Body).Decode(&mov); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if mov.ID == 0 {
		jsonError(w, "Movie id is required", http.StatusBadRequest)
		return
	}

	result, err := h.bookmarks.Toggle(r.Context(), mov)
	if err != nil {
		logger.Errorf("Toggle bookmark of %s failed: %s", mov.ID, err)
		jsonError(w, "Toggle bookmark failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
