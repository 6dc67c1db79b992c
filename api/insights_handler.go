package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/raushankrgupta/threadline/insights"
	"github.com/raushankrgupta/threadline/utils"
)

// UtilizationResponse is returned by /utilization/get.
type UtilizationResponse struct {
	Utilization []insights.TypeUtilization `json:"utilization"`
	Rewears     []insights.Rewear          `json:"rewears"`
}

// UtilizationHandler reports how much of the wardrobe was worn in the last month.
func (s *Server) UtilizationHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Utilization")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodGet) {
		return
	}
	username, ok := usernameFrom(w, r, logMessageBuilder)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	garments, err := s.store.ListGarments(ctx, username)
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch closet", err)
		return
	}
	outfits, err := s.store.OutfitsSince(ctx, username, insights.MonthCutoff(s.now()))
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch outfits", err)
		return
	}

	rewears := insights.Rewears(garments, outfits)
	keys := make([]string, 0, len(rewears))
	for _, rw := range rewears {
		keys = append(keys, rw.Image)
	}
	urls := s.presign(ctx, keys)
	for i := range rewears {
		rewears[i].Image = urls[rewears[i].Image]
	}

	utils.RespondJSON(w, http.StatusOK, UtilizationResponse{
		Utilization: insights.Utilization(garments, outfits),
		Rewears:     rewears,
	})
}

// DeclutterResponse is returned by /declutter/get.
type DeclutterResponse struct {
	Clothes []insights.DeclutterCandidate `json:"clothes"`
}

// DeclutterHandler suggests garments to part with.
func (s *Server) DeclutterHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Declutter")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodGet) {
		return
	}
	username, ok := usernameFrom(w, r, logMessageBuilder)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	garments, err := s.store.ListGarments(ctx, username)
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch closet", err)
		return
	}
	history, err := s.store.WearHistory(ctx, username)
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch wear history", err)
		return
	}

	candidates := insights.Declutter(garments, history, s.now())
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, c.Image)
	}
	urls := s.presign(ctx, keys)
	for i := range candidates {
		candidates[i].Image = urls[candidates[i].Image]
	}

	utils.AddToLogMessagef(logMessageBuilder, "candidates=%d", len(candidates))
	utils.RespondJSON(w, http.StatusOK, DeclutterResponse{Clothes: candidates})
}

// DeclutterRequest is the body of /declutter/post.
type DeclutterRequest struct {
	Username    string   `json:"username"`
	ClothingIDs []string `json:"clothing_ids"`
}

// DeclutterPostHandler soft-deletes the chosen garments.
func (s *Server) DeclutterPostHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Declutter Post")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodPost) {
		return
	}

	var req DeclutterRequest
	if !decodeJSON(w, r, logMessageBuilder, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.ClothingIDs) == 0 {
		utils.RespondError(w, logMessageBuilder, "username and clothing_ids are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	n, err := s.store.SoftDeleteGarments(ctx, req.Username, orderedUnique(req.ClothingIDs))
	if err != nil {
		respondStoreError(w, logMessageBuilder, "declutter", err)
		return
	}

	utils.AddToLogMessagef(logMessageBuilder, "username=%s deleted=%d", req.Username, n)
	utils.RespondJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
