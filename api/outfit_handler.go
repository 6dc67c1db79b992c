package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/threadline/insights"
	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/utils"
)

// pastOutfitLimit is how many logged outfits /outfits/get returns.
const pastOutfitLimit = 15

// LogOutfitRequest is the body of /outfit/post.
type LogOutfitRequest struct {
	Username    string     `json:"username"`
	ClothingIDs []string   `json:"clothing_ids"`
	DateWorn    *time.Time `json:"date_worn,omitempty"`
}

// LogOutfitHandler records that the user wore a set of garments.
func (s *Server) LogOutfitHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Log Outfit")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodPost) {
		return
	}

	var req LogOutfitRequest
	if !decodeJSON(w, r, logMessageBuilder, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	ids := orderedUnique(req.ClothingIDs)
	if req.Username == "" || len(ids) == 0 {
		utils.RespondError(w, logMessageBuilder, "username and clothing_ids are required", http.StatusBadRequest)
		return
	}
	utils.AddToLogMessagef(logMessageBuilder, "username=%s items=%d", req.Username, len(ids))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	owned, err := s.store.GarmentsByIDs(ctx, req.Username, ids)
	if err != nil {
		respondStoreError(w, logMessageBuilder, "load clothing", err)
		return
	}
	if len(owned) != len(ids) {
		utils.RespondError(w, logMessageBuilder, "unknown clothing ids for user", http.StatusBadRequest)
		return
	}

	outfit := models.Outfit{Username: req.Username, ClothingIDs: ids, DateWorn: s.now()}
	if req.DateWorn != nil {
		outfit.DateWorn = *req.DateWorn
	}
	if err := s.store.CreateOutfit(ctx, &outfit); err != nil {
		respondStoreError(w, logMessageBuilder, "log outfit", err)
		return
	}

	utils.AddToLogMessagef(logMessageBuilder, "outfit=%s", outfit.ID)
	utils.RespondJSON(w, http.StatusCreated, outfit)
}

// orderedUnique drops repeated ids, keeping first occurrences in order.
func orderedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// PastOutfitsResponse is returned by /outfits/get.
type PastOutfitsResponse struct {
	Outfits []insights.PastOutfit `json:"outfits"`
}

// PastOutfitsHandler lists the most recently logged outfits.
func (s *Server) PastOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Past Outfits")
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

	outfits, err := s.store.RecentOutfits(ctx, username, pastOutfitLimit)
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch outfits", err)
		return
	}

	var ids []string
	for _, o := range outfits {
		ids = append(ids, o.ClothingIDs...)
	}
	garments, err := s.store.GarmentsByIDs(ctx, username, orderedUnique(ids))
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch clothing", err)
		return
	}

	past := insights.PastOutfits(outfits, garments)
	var keys []string
	for _, p := range past {
		for _, item := range p.Items {
			keys = append(keys, item.Image)
		}
	}
	urls := s.presign(ctx, keys)
	for _, p := range past {
		for i := range p.Items {
			p.Items[i].Image = urls[p.Items[i].Image]
		}
	}

	utils.AddToLogMessagef(logMessageBuilder, "outfits=%d", len(past))
	utils.RespondJSON(w, http.StatusOK, PastOutfitsResponse{Outfits: past})
}
