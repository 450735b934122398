package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vogue-styler/models"
	"github.com/raushankrgupta/vogue-styler/store"
	"github.com/raushankrgupta/vogue-styler/utils"
)

// RegisterRequest represents the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates an account through the device's controller. On
// success the app moves to the login view; a duplicate email keeps it where
// it was.
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Register API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Name, Email and Password are required", http.StatusBadRequest)
		return
	}

	gender := models.Gender(req.Gender)
	if gender != models.GenderMale && gender != models.GenderFemale {
		gender = models.GenderFemale
	}

	err := ctl.Register(r.Context(), req.Email, req.Password, req.Name, gender)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Registration rejected: %s", ve.Reason))
			utils.RespondError(w, nil, ve.Reason, http.StatusConflict)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Registration failed: %v", err))
		utils.RespondError(w, nil, "Failed to create account", http.StatusInternalServerError)
		return
	}

	// Fire-and-forget: a mail failure must not block registration.
	go func(name, email string) {
		if err := utils.SendWelcomeEmail(name, email); err != nil {
			fmt.Printf("Failed to send welcome email to %s: %v\n", email, err)
		}
	}(req.Name, req.Email)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Registered %s", req.Email))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created. Please log in.",
		"view":    ctl.CurrentView(),
	})
}

// LoginHandler authenticates through the device's controller and issues a
// JWT the device can use to re-attach later.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Email and Password are required", http.StatusBadRequest)
		return
	}

	user, err := ctl.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Login rejected for %s", req.Email))
			utils.RespondError(w, nil, ve.Reason, http.StatusUnauthorized)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Login failed: %v", err))
		utils.RespondError(w, nil, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, nil, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
		"view":    ctl.CurrentView(),
	})
}

// LogoutHandler tears the device session down and returns to home.
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Logout API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctl, ok := s.controller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	ctl.Logout(r.Context())
	utils.AddToLogMessage(&logMessageBuilder, "Logged out")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"view": ctl.CurrentView()})
}
