package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/geo"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/slug"
	"github.com/powderlines/resort-cli/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListResorts(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Slug:      r.URL.Query().Get("q"),
		StateSlug: r.URL.Query().Get("state"),
		Country:   r.URL.Query().Get("country"),
	}
	if r.URL.Query().Get("include_lost") == "true" {
		filter.IncludeLost = true
	}

	resorts, err := s.store.ListResorts(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list resorts", err)
		return
	}
	if resorts == nil {
		resorts = []model.Resort{}
	}
	respondData(w, http.StatusOK, resorts)
}

func (s *Server) handleCreateResort(w http.ResponseWriter, r *http.Request) {
	var in model.Resort
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Make(in.Name)
	}

	created, err := s.store.UpsertResort(r.Context(), in)
	if err != nil {
		s.internalError(w, "create resort", err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (s *Server) handleGetResort(w http.ResponseWriter, r *http.Request) {
	resort, ok := s.lookup(w, r)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, resort)
}

func (s *Server) handleUpdateResort(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var in model.Resort
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Identity comes from the path, not the body.
	in.ID = existing.ID
	in.Slug = existing.Slug
	in.CreatedAt = existing.CreatedAt

	updated, err := s.store.UpsertResort(r.Context(), in)
	if err != nil {
		s.internalError(w, "update resort", err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResort(w http.ResponseWriter, r *http.Request) {
	resort, ok := s.lookup(w, r)
	if !ok {
		return
	}

	// Deletion is soft: the row survives with is_lost set.
	if err := s.store.MarkLost(r.Context(), resort.Slug); err != nil {
		s.internalError(w, "mark lost", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"slug": resort.Slug, "status": string(model.StatusLost)})
}

func (s *Server) handleGetConditions(w http.ResponseWriter, r *http.Request) {
	resort, ok := s.lookup(w, r)
	if !ok {
		return
	}

	c, err := s.store.GetConditions(r.Context(), resort.ID)
	if err != nil {
		s.internalError(w, "get conditions", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "no conditions recorded")
		return
	}
	respondData(w, http.StatusOK, c)
}

func (s *Server) handlePutConditions(w http.ResponseWriter, r *http.Request) {
	resort, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var in model.Conditions
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.ResortID = resort.ID

	if err := s.store.UpsertConditions(r.Context(), in); err != nil {
		s.internalError(w, "put conditions", err)
		return
	}
	respondData(w, http.StatusOK, in)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	resort, ok := s.lookup(w, r)
	if !ok {
		return
	}

	maxMiles := s.opts.MaxMiles
	if v := r.URL.Query().Get("max_miles"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "max_miles must be a positive number")
			return
		}
		maxMiles = parsed
	}
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	candidates, err := s.store.ListResorts(r.Context(), store.ListFilter{})
	if err != nil {
		s.internalError(w, "list resorts", err)
		return
	}

	neighbors := geo.Nearby(*resort, candidates, maxMiles, limit)
	respondData(w, http.StatusOK, neighbors)
}

// lookup resolves the {slug} path param to a resort, writing the 404
// envelope itself when the resort does not exist.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*model.Resort, bool) {
	sl := chi.URLParam(r, "slug")
	resort, err := s.store.GetResortBySlug(r.Context(), sl)
	if err != nil {
		s.internalError(w, "get resort", err)
		return nil, false
	}
	if resort == nil {
		respondError(w, http.StatusNotFound, "resort not found")
		return nil, false
	}
	return resort, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	zap.S().Errorw(op, "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
}
