package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// maxRecordBytes caps request bodies.
const maxRecordBytes = 64 << 10

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// readRecord parses the request body as a record and checks that it holds
// one value per track of its team's catalog.
func (s *Server) readRecord(r *http.Request) (ladder.Record, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRecordBytes))
	if err != nil {
		return ladder.Record{}, &ladder.InvalidRecordError{Err: err}
	}
	rec, err := ladder.ParseRecord(raw)
	if err != nil {
		return ladder.Record{}, err
	}
	if err := ladder.CheckRecord(s.reg, rec); err != nil {
		return ladder.Record{}, err
	}
	return rec, nil
}

// Legacy handlers

func (s *Server) handleLegacyGet(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	rec, err := s.repo.Get(r.Context(), username)
	if err != nil {
		status, _ := statusFor(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (s *Server) handleLegacyUpdate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.readRecord(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if status, err := s.authorizeWrite(r, rec.Username); err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	if err := s.repo.Save(r.Context(), rec); err != nil {
		status, _ := statusFor(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Team handlers

type teamInfo struct {
	Team       string   `json:"team"`
	Tracks     int      `json:"tracks"`
	Categories []string `json:"categories"`
}

type teamDetail struct {
	Team   string            `json:"team"`
	Colors map[string]string `json:"colors"`
	Tracks []tracks.Track    `json:"tracks"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams := make([]teamInfo, 0, len(s.reg.Teams()))
	for _, name := range s.reg.Teams() {
		cat := s.reg.ForTeam(name)
		teams = append(teams, teamInfo{Team: name, Tracks: cat.Len(), Categories: cat.Categories()})
	}
	respondJSON(w, http.StatusOK, teams)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "team")
	cat, ok := s.reg.Lookup(name)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown team: "+name)
		return
	}
	respondJSON(w, http.StatusOK, teamDetail{
		Team:   cat.Team(),
		Colors: ladder.CategoryColors(cat),
		Tracks: cat.Tracks(),
	})
}

// Profile handlers

type profileResponse struct {
	Record ladder.Record `json:"record"`
	Meta   store.Meta    `json:"meta"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if recs == nil {
		recs = []ladder.Record{}
	}
	respondJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	rec, err := s.repo.Get(r.Context(), username)
	if err != nil {
		respondErr(w, err)
		return
	}
	meta, err := s.repo.Meta(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{Record: rec, Meta: meta})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	rec, err := s.readRecord(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	if rec.Username != username {
		respondError(w, http.StatusBadRequest, "username_mismatch", "record username does not match the path")
		return
	}
	if status, err := s.authorizeWrite(r, username); err != nil {
		respondError(w, status, authCode(status), err.Error())
		return
	}
	if err := s.repo.Save(r.Context(), rec); err != nil {
		respondErr(w, err)
		return
	}
	meta, err := s.repo.Meta(r.Context(), username)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{Record: rec, Meta: meta})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if status, err := s.authorizeWrite(r, username); err != nil {
		respondError(w, status, authCode(status), err.Error())
		return
	}
	if err := s.repo.Delete(r.Context(), username); err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": username})
}

func (s *Server) handleProfileSummary(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondErr(w, err)
		return
	}
	p, err := ladder.DecodeRecord(s.reg, rec)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ladder.Summarize(p))
}
