package api

import (
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/catalog"
	"github.com/raushankrgupta/vogue-styler/gemini"
	"github.com/raushankrgupta/vogue-styler/inspiration"
	"github.com/raushankrgupta/vogue-styler/session"
	"github.com/raushankrgupta/vogue-styler/utils"
	"github.com/raushankrgupta/vogue-styler/view"
)

// Server holds the handlers' collaborators. Every /app endpoint is scoped to
// a device session carried in the X-Device-ID header; the per-device view
// controller does the actual work.
type Server struct {
	Apps     *view.Manager
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Gemini   *gemini.Client
	Trends   *inspiration.Feed
}

// controller resolves the request's device controller, attaching (and
// bootstrapping) it on first contact. A missing device header is a client
// error.
func (s *Server) controller(w http.ResponseWriter, r *http.Request, logger *strings.Builder) (*view.Controller, bool) {
	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		utils.RespondError(w, logger, "X-Device-ID header is required", http.StatusBadRequest)
		return nil, false
	}
	return s.Apps.Attach(r.Context(), deviceID), true
}

// requireUser rejects requests from devices without an authenticated
// session.
func requireUser(w http.ResponseWriter, logger *strings.Builder, ctl *view.Controller) bool {
	if ctl.CurrentUser() == nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// bearerToken pulls the JWT out of the Authorization header, if any.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
