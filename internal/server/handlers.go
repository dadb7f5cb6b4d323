package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/auth"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/rank"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if !s.service.Ready() {
		status = "loading"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		zap.L().Error("server: sign in", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "sign in failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAgencies(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"agencies": s.service.Agencies(),
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, s.service.Match(req.Prompt))
}

func criteriaFromQuery(r *http.Request) rank.FilterCriteria {
	q := r.URL.Query()
	return rank.FilterCriteria{
		Query:      q.Get("q"),
		Domain:     q.Get("domain"),
		Popularity: model.PopularityTier(q.Get("popularity")),
	}
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Filter(criteriaFromQuery(r))
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.collector.Collect(r.Context())
	if err != nil {
		zap.L().Error("server: collect stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "stats collection failed")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
