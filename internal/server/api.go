package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/formatter"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/setlist"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// APIHandler serves the catalog, saved sets and transposer as JSON.
//
// Implements the Handler interface for registration with a Router.
type APIHandler struct {
	session *setlist.Session
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewAPIHandler creates an APIHandler over session.
func NewAPIHandler(session *setlist.Session, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	h := &APIHandler{session: session, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /api/songs", h.listSongs)
	h.mux.HandleFunc("GET /api/songs/{id}/chords", h.songChords)
	h.mux.HandleFunc("GET /api/sets", h.listSets)
	h.mux.HandleFunc("GET /api/sets/{name}", h.getSet)
	h.mux.HandleFunc("POST /api/sets/{name}/build", h.buildSet)
	h.mux.HandleFunc("GET /api/transpose", h.transpose)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{
		"GET /health",
		"GET /api/songs",
		"GET /api/songs/{id}/chords",
		"GET /api/sets",
		"GET /api/sets/{name}",
		"POST /api/sets/{name}/build",
		"GET /api/transpose",
	}
}

// ServeHTTP dispatches to the route handlers.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// ChartSection is one rendered section of a chord chart.
type ChartSection struct {
	Label  string   `json:"label"`
	Chords []string `json:"chords"`
}

// ChartResponse is the body of GET /api/songs/{id}/chords.
type ChartResponse struct {
	ID        models.SongID  `json:"id"`
	Title     string         `json:"title"`
	Key       string         `json:"key"`
	Offset    chords.Offset  `json:"offset"`
	ChordLink string         `json:"chordLink,omitempty"`
	Sections  []ChartSection `json:"sections"`
}

// SetResponse is the body of the set endpoints.
type SetResponse struct {
	Name  string        `json:"name"`
	Songs []models.Song `json:"songs"`
}

func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "songs": h.session.Catalog().Len()})
}

func (h *APIHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	songs := h.session.Catalog().Filter(criteriaFromQuery(r))
	writeJSON(w, http.StatusOK, songs)
}

func (h *APIHandler) songChords(w http.ResponseWriter, r *http.Request) {
	id := models.SongID(r.PathValue("id"))
	song, ok := h.session.Catalog().Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "song not found: "+id.String())
		return
	}

	offset, err := offsetFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := ChartResponse{
		ID:        song.ID,
		Title:     song.Title,
		Key:       string(song.Key),
		Offset:    offset,
		ChordLink: song.ChordLink,
		Sections:  []ChartSection{},
	}
	if offset.Active() && song.Key != "" {
		resp.Key = chords.Transpose(string(song.Key), offset.Int())
	}

	chart := setlist.Chart(song, offset)
	for _, section := range models.SectionOrder {
		if len(chart[section]) > 0 {
			resp.Sections = append(resp.Sections, ChartSection{Label: section.Label(), Chords: chart[section]})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) listSets(w http.ResponseWriter, r *http.Request) {
	names, err := h.session.SavedNames()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// getSet returns a saved set as JSON, or as an export when ?format= is text, markdown or csv.
//
// It resolves the set directly and leaves the shared working set alone.
func (h *APIHandler) getSet(w http.ResponseWriter, r *http.Request) {
	name := shared.NormalizeName(r.PathValue("name"))
	songs, err := h.session.Resolve(name)
	if err != nil {
		h.fail(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == string(formatter.FormatJSON) {
		writeJSON(w, http.StatusOK, SetResponse{Name: name, Songs: songs})
		return
	}

	f, err := formatter.ParseFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := offsetFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := formatter.Export(formatter.SetExport{
		Name:   name,
		Songs:  songs,
		Offset: offset,
		Chords: r.URL.Query().Get("chords") == "1",
	}, f)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(f))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// buildSet builds a smart set from the filtered catalog and saves it under the path name.
func (h *APIHandler) buildSet(w http.ResponseWriter, r *http.Request) {
	name := shared.NormalizeName(r.PathValue("name"))
	songs, err := h.session.BuildAndSave(criteriaFromQuery(r), name)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("built set", "name", name, "songs", len(songs))
	writeJSON(w, http.StatusCreated, SetResponse{Name: name, Songs: songs})
}

func (h *APIHandler) transpose(w http.ResponseWriter, r *http.Request) {
	chord := r.URL.Query().Get("chord")
	if chord == "" {
		writeError(w, http.StatusBadRequest, "chord is required")
		return
	}

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chord":  chord,
		"offset": offset,
		"result": chords.Transpose(chord, offset),
	})
}

// fail maps domain errors to status codes.
func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrSetNotFound), errors.Is(err, shared.ErrSongNotFound), errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrEmptySet), errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidFlag):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func criteriaFromQuery(r *http.Request) models.FilterCriteria {
	q := r.URL.Query()
	return models.FilterCriteria{
		Query:  q.Get("q"),
		Era:    q.Get("era"),
		Artist: q.Get("artist"),
		Tag:    q.Get("tag"),
		Sort:   catalog.ParseSortMode(q.Get("sort")),
	}
}

func offsetFromQuery(r *http.Request) (chords.Offset, error) {
	v := r.URL.Query().Get("offset")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("offset must be an integer")
	}
	return chords.NewOffset(n), nil
}

func contentType(f formatter.Format) string {
	switch f {
	case formatter.FormatCSV:
		return "text/csv; charset=utf-8"
	case formatter.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
