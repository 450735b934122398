package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/utils"
	"github.com/raushankrgupta/vogue-styler/view"
)

// AttachHandler binds a device to its app controller and runs the session
// bootstrap. A Bearer token from a previous login re-establishes the device
// session first, so a reinstalled app comes back signed in.
func (s *Server) AttachHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Attach API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		utils.RespondError(w, &logMessageBuilder, "X-Device-ID header is required", http.StatusBadRequest)
		return
	}

	if token := bearerToken(r); token != "" {
		if userID, err := utils.UserIDFromToken(token); err == nil {
			if err := s.Sessions.SetCurrentUser(r.Context(), deviceID, userID); err != nil {
				utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to restore session from token: %v", err))
			} else {
				utils.AddToLogMessage(&logMessageBuilder, "Session restored from token")
				// A controller attached earlier (say, before a logout) has
				// already bootstrapped; drop it so the restored session is
				// picked up by a fresh bootstrap below.
				if existing := s.Apps.Get(deviceID); existing != nil && existing.CurrentUser() == nil {
					s.Apps.Drop(deviceID)
				}
			}
		} else {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Ignoring invalid token: %v", err))
		}
	}

	ctl := s.Apps.Attach(r.Context(), deviceID)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Device %s attached, view=%s", deviceID, ctl.CurrentView()))

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"view": ctl.CurrentView(),
		"user": ctl.CurrentUser(),
	})
}

// NavigateRequest asks for a view change.
type NavigateRequest struct {
	View string `json:"view"`
}

// NavigateHandler runs a guarded view transition and returns the view
// actually entered. Guard redirects are not errors.
func (s *Server) NavigateHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Navigate API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !view.Valid(view.View(req.View)) {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown view %q", req.View), http.StatusBadRequest)
		return
	}

	entered := ctl.Navigate(view.View(req.View))
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Navigate %s -> %s", req.View, entered))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"view": entered})
}
