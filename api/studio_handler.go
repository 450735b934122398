package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/catalog"
	"github.com/raushankrgupta/vogue-styler/gemini"
	"github.com/raushankrgupta/vogue-styler/models"
	"github.com/raushankrgupta/vogue-styler/utils"
)

// CatalogHandler lists the style options for a category, filtered to the
// device's gender preference, plus the preset vibes for the Style tab.
func (s *Server) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok {
		return
	}

	cat := models.StyleCategory(r.URL.Query().Get("category"))
	if cat == "" {
		cat = models.CategoryHairstyle
	}

	gender := ctl.Preferences().Gender
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"options":       s.Catalog.Filter(cat, gender),
		"preset_styles": catalog.PresetStyles,
	})
}

// SelectRequest picks one catalog option.
type SelectRequest struct {
	OptionID string `json:"option_id"`
}

// SelectHandler applies a catalog pick to the selection machine and kicks
// off a preview generation.
func (s *Server) SelectHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Studio Select API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok || !requireUser(w, &logMessageBuilder, ctl) {
		return
	}

	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	opt := s.Catalog.Find(req.OptionID)
	if opt == nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown option %q", req.OptionID), http.StatusNotFound)
		return
	}

	ctl.Choose(*opt)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Selected %s (%s)", opt.ID, opt.Category))

	img, loading := ctl.Preview()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"selection": ctl.Selection(),
		"preview":   img,
		"loading":   loading,
	})
}

// StyleRequest sets the free-text style vibe.
type StyleRequest struct {
	Text string `json:"text"`
}

// StyleHandler forwards free-text style input to the selection machine.
func (s *Server) StyleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	var req StyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctl.SetStyleText(req.Text)
	img, loading := ctl.Preview()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"selection": ctl.Selection(),
		"preview":   img,
		"loading":   loading,
	})
}

// PreviewHandler is the poll endpoint for the studio's preview image and
// loading indicator.
func (s *Server) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok {
		return
	}

	img, loading := ctl.Preview()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"preview": img,
		"loading": loading,
	})
}

// FinalizeHandler snapshots the preview into a pending result ("finish
// designing") and moves to the result view.
func (s *Server) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Studio Finalize API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok || !requireUser(w, &logMessageBuilder, ctl) {
		return
	}

	res := ctl.Finalize()
	utils.AddToLogMessage(&logMessageBuilder, "Design finalized")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"view":   ctl.CurrentView(),
		"result": res,
	})
}

// ThumbnailHandler looks up a representative image for a style name.
func (s *Server) ThumbnailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		utils.RespondError(w, nil, "name query parameter is required", http.StatusBadRequest)
		return
	}

	url := gemini.FallbackThumbnailURL
	if s.Gemini != nil {
		url = s.Gemini.FetchStyleThumbnail(r.Context(), name)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
