package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/catalog"
	"github.com/raushankrgupta/vogue-styler/models"
	"github.com/raushankrgupta/vogue-styler/utils"
)

// PreferencesRequest updates the try-on gender preference.
type PreferencesRequest struct {
	Gender string `json:"gender"`
}

// PreferencesHandler updates and persists the device user's try-on
// preference.
func (s *Server) PreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Preferences API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok || !requireUser(w, &logMessageBuilder, ctl) {
		return
	}

	var req PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	gender := models.Gender(req.Gender)
	if gender != models.GenderMale && gender != models.GenderFemale {
		utils.RespondError(w, &logMessageBuilder, "Gender must be Male or Female", http.StatusBadRequest)
		return
	}

	ctl.SetGender(r.Context(), gender)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Preference set to %s", gender))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"preferences": ctl.Preferences()})
}

// ImageRequest carries an image payload as a data URI. An empty image
// resets the field.
type ImageRequest struct {
	Image string `json:"image"`
}

// AvatarHandler updates the profile avatar.
func (s *Server) AvatarHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctl.SetAvatar(r.Context(), req.Image)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"preferences": ctl.Preferences()})
}

// ModelImageHandler replaces or resets the user's own digital-model photo.
func (s *Server) ModelImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctl.SetModelImage(r.Context(), req.Image)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"preferences": ctl.Preferences()})
}

// InspirationHandler serves the search view's trend feed and tags.
func (s *Server) InspirationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"images": s.Trends.TrendImages(r.Context()),
		"tags":   catalog.TrendingTags,
	})
}
