package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/progress"
	"github.com/julianstephens/sitelit/internal/site"
)

type progressResponse struct {
	Summary     progress.Summary    `json:"summary"`
	Sentence    string              `json:"sentence"`
	Initiatives []models.Initiative `json:"initiatives"`
}

type toggleRequest struct {
	Checked *bool `json:"checked"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// build resolves a site for r. month and open come from the query string.
func (s *Server) build(w http.ResponseWriter, r *http.Request, month, open string) (*site.Site, bool) {
	opts := s.cfg.Site
	opts.OpenDate = open
	if month != "" {
		m, err := calendar.ParseMonth(month)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		opts.Month = m
	}

	st, err := site.Build(r.Context(), opts)
	if err != nil {
		logger.Error("Failed to build page", "error", err, "request_id", GetRequestID(r.Context()))
		respondWithError(w, http.StatusBadGateway, "page unavailable")
		return nil, false
	}

	var source string
	if st.Calendar != nil {
		source = st.Calendar.Source()
	}
	mode := ""
	if st.HasProgress {
		mode = st.Progress.Summary.Mode
	}
	s.metrics.observeSources(mode, source)
	return st, true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, ok := s.build(w, r, q.Get("month"), q.Get("day"))
	if !ok {
		return
	}
	if st.Doc == nil {
		respondWithError(w, http.StatusNotFound, "no page configured")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := st.Render(w); err != nil {
		logger.Error("Failed to render page", "error", err)
	}
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	st, ok := s.build(w, r, "", "")
	if !ok {
		return
	}
	if !st.HasProgress {
		respondWithError(w, http.StatusNotFound, "page has no progress region")
		return
	}
	respondWithJSON(w, http.StatusOK, progressResponse{
		Summary:     st.Progress.Summary,
		Sentence:    st.Progress.Summary.Sentence(),
		Initiatives: st.Progress.Initiatives,
	})
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	st, ok := s.build(w, r, r.URL.Query().Get("month"), "")
	if !ok {
		return
	}
	if st.Calendar == nil {
		respondWithError(w, http.StatusNotFound, "page has no calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, st.Calendar.Grid().View(st.Calendar.Source()))
}

func (s *Server) day(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	st, ok := s.build(w, r, "", "")
	if !ok {
		return
	}
	if st.Calendar == nil {
		respondWithError(w, http.StatusNotFound, "page has no calendar")
		return
	}

	ov, err := st.Calendar.Open(date)
	switch {
	case errors.Is(err, calendar.ErrNoEvents):
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, ov)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])

	var req toggleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil || req.Checked == nil {
		s.metrics.toggles.WithLabelValues("bad_request").Inc()
		respondWithError(w, http.StatusBadRequest, `body must be {"checked": true|false}`)
		return
	}

	st, ok := s.build(w, r, "", "")
	if !ok {
		return
	}

	summary, err := st.Toggle(name, *req.Checked)
	switch {
	case errors.Is(err, site.ErrNoLegacyControls):
		s.metrics.toggles.WithLabelValues("conflict").Inc()
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, kvstore.ErrNotInitialized):
		s.metrics.toggles.WithLabelValues("unavailable").Inc()
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil && !checkExists(st, name):
		s.metrics.toggles.WithLabelValues("not_found").Inc()
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.metrics.toggles.WithLabelValues("error").Inc()
		logger.Error("Failed to persist checkbox", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to persist checkbox state")
		return
	}

	s.metrics.toggles.WithLabelValues("ok").Inc()
	respondWithJSON(w, http.StatusOK, progressResponse{
		Summary:     summary,
		Sentence:    summary.Sentence(),
		Initiatives: st.Progress.Initiatives,
	})
}

func checkExists(st *site.Site, name string) bool {
	if st.Progress.Tracker == nil {
		return false
	}
	for _, c := range st.Progress.Tracker.Checks() {
		if c.Name == name {
			return true
		}
	}
	return false
}
