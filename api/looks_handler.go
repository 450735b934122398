package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/utils"
	"github.com/raushankrgupta/vogue-styler/view"
)

// SaveLookHandler persists the pending result as a SavedLook and moves to
// favorites. The favorites list is only touched once the store write
// succeeds.
func (s *Server) SaveLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Save Look API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok || !requireUser(w, &logMessageBuilder, ctl) {
		return
	}

	look, err := ctl.SaveResult(r.Context())
	if err != nil {
		if errors.Is(err, view.ErrNoPendingResult) {
			utils.RespondError(w, &logMessageBuilder, "Nothing to save", http.StatusBadRequest)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save look: %v", err))
		utils.RespondError(w, nil, "Failed to save look", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved look %s", look.ID))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"view": ctl.CurrentView(),
		"look": look,
	})
}

// ListLooksHandler returns the device user's saved looks, newest first.
func (s *Server) ListLooksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"looks": ctl.SavedLooks(),
	})
}

// LookRequest names one saved look.
type LookRequest struct {
	ID string `json:"id"`
}

// DeleteLookHandler removes a saved look and shows favorites.
func (s *Server) DeleteLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Look API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok || !requireUser(w, &logMessageBuilder, ctl) {
		return
	}

	var req LookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		utils.RespondError(w, &logMessageBuilder, "Look id is required", http.StatusBadRequest)
		return
	}

	if err := ctl.DeleteLook(r.Context(), req.ID); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete look %s: %v", req.ID, err))
		utils.RespondError(w, nil, "Failed to delete look", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted look %s", req.ID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"view": ctl.CurrentView()})
}

// OpenLookHandler activates a look and enters its detail view; an unknown
// id lands back on favorites.
func (s *Server) OpenLookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	var req LookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		utils.RespondError(w, nil, "Look id is required", http.StatusBadRequest)
		return
	}

	entered := ctl.OpenLook(r.Context(), req.ID)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"view": entered,
		"look": ctl.ActiveLook(),
	})
}

// EditLookHandler reloads the active look into the studio for further
// editing.
func (s *Server) EditLookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, nil)
	if !ok || !requireUser(w, nil, ctl) {
		return
	}

	entered := ctl.EditFromLook()
	img, loading := ctl.Preview()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"view":      entered,
		"selection": ctl.Selection(),
		"preview":   img,
		"loading":   loading,
	})
}
