package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/raushankrgupta/threadline/colors"
	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/utils"
)

// CreateClothingHandler adds a garment from a multipart form with its photo.
func (s *Server) CreateClothingHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Create Clothing")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(utils.MaxImageBytes); err != nil {
		utils.RespondError(w, logMessageBuilder, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	garment, err := garmentFromForm(r)
	if err != nil {
		utils.RespondError(w, logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	utils.AddToLogMessagef(logMessageBuilder, "username=%s type=%s", garment.Username, garment.Type)

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "image is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > utils.MaxImageBytes {
		utils.RespondError(w, logMessageBuilder, "image exceeds 10MB", http.StatusBadRequest)
		return
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	contentType := http.DetectContentType(head[:n])
	ext, err := utils.ImageExtension(contentType)
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "image must be png or jpeg", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.RespondError(w, logMessageBuilder, "Failed to read image", http.StatusInternalServerError)
		return
	}
	if s.images == nil {
		utils.RespondError(w, logMessageBuilder, "image storage is not configured", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := s.store.EnsureUser(ctx, garment.Username); err != nil {
		respondStoreError(w, logMessageBuilder, "create user", err)
		return
	}

	key, err := s.images.Upload(ctx, file, utils.ImageObjectKey(garment.Username, ext), contentType)
	if err != nil {
		utils.AddToLogMessagef(logMessageBuilder, "upload: %v", err)
		utils.RespondError(w, logMessageBuilder, "Failed to upload image", http.StatusInternalServerError)
		return
	}
	garment.ImageFilename = key
	garment.CreatedAt = s.now().UTC()

	if err := s.store.CreateGarment(ctx, &garment); err != nil {
		respondStoreError(w, logMessageBuilder, "create clothing", err)
		return
	}

	utils.AddToLogMessagef(logMessageBuilder, "created id=%s key=%s", garment.ID, key)
	utils.RespondJSON(w, http.StatusCreated, garment)
}

// garmentFromForm parses and validates the garment fields of a form.
func garmentFromForm(r *http.Request) (models.Garment, error) {
	var err error
	g := models.Garment{
		Username: strings.TrimSpace(r.FormValue("username")),
		Subtype:  models.Subtype(strings.ToUpper(strings.TrimSpace(r.FormValue("subtype")))),
		Fit:      models.Fit(strings.ToUpper(strings.TrimSpace(r.FormValue("fit")))),
		Occasion: models.Occasion(strings.ToUpper(strings.TrimSpace(r.FormValue("occasion")))),
	}
	if g.Type, err = models.ParseClothingType(r.FormValue("type")); err != nil {
		return g, err
	}
	if g.Precip, err = models.ParsePrecip(r.FormValue("precip")); err != nil {
		return g, err
	}
	season := r.FormValue("season")
	if season == "" {
		season = r.FormValue("weather")
	}
	if g.Season, err = models.ParseSeason(season); err != nil {
		return g, err
	}
	if v := r.FormValue("layerable"); v != "" {
		if g.Layerable, err = strconv.ParseBool(v); err != nil {
			return g, fmt.Errorf("%w: layerable must be true or false", models.ErrInvalidGarment)
		}
	}
	if g.PrimaryColor, err = parseColor(r.FormValue("color")); err != nil {
		return g, err
	}
	if g.SecondaryColor, err = parseColor(r.FormValue("color_2nd")); err != nil {
		return g, err
	}
	for _, tag := range r.Form["tags"] {
		label, value, ok := strings.Cut(tag, "=")
		if !ok || strings.TrimSpace(label) == "" {
			return g, fmt.Errorf("%w: tag %q must be label=value", models.ErrInvalidGarment, tag)
		}
		if g.Tags == nil {
			g.Tags = make(map[string]string)
		}
		g.Tags[strings.TrimSpace(label)] = strings.TrimSpace(value)
	}
	return g, g.Validate()
}

func parseColor(hex string) (*colors.Lab, error) {
	if strings.TrimSpace(hex) == "" {
		return nil, nil
	}
	rgb, err := colors.ParseHex(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidGarment, err)
	}
	lab := rgb.Lab()
	return &lab, nil
}

// ClosetResponse is returned by /closet/get.
type ClosetResponse struct {
	Clothes []models.Garment `json:"clothes"`
}

// ClosetHandler lists a user's non-deleted garments with presigned images.
// An optional type query parameter narrows the list to one clothing type.
func (s *Server) ClosetHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Closet")
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

	var garments []models.Garment
	var err error
	if raw := r.URL.Query().Get("type"); raw != "" {
		clothingType, perr := models.ParseClothingType(raw)
		if perr != nil {
			utils.RespondError(w, logMessageBuilder, perr.Error(), http.StatusBadRequest)
			return
		}
		utils.AddToLogMessagef(logMessageBuilder, "type=%s", clothingType)
		garments, err = s.store.GarmentsByType(ctx, username, clothingType)
	} else {
		garments, err = s.store.ListGarments(ctx, username)
	}
	if err != nil {
		respondStoreError(w, logMessageBuilder, "fetch closet", err)
		return
	}

	keys := make([]string, 0, len(garments))
	for _, g := range garments {
		keys = append(keys, g.ImageFilename)
	}
	urls := s.presign(ctx, keys)
	for i := range garments {
		garments[i].ImageFilename = urls[garments[i].ImageFilename]
	}

	// Ensure empty slice is returned as [] instead of null
	if garments == nil {
		garments = []models.Garment{}
	}
	utils.AddToLogMessagef(logMessageBuilder, "clothes=%d", len(garments))
	utils.RespondJSON(w, http.StatusOK, ClosetResponse{Clothes: garments})
}

// CategoriesHandler lists every accepted tag value.
func (s *Server) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Categories")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodGet) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.AllCategories())
}
