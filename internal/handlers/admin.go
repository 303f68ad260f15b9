package handlers

import (
	"encoding/json"
	"net/http"

	"skinsense-backend/internal/logging"
	"skinsense-backend/internal/middleware"
	"skinsense-backend/internal/session"

	"go.uber.org/zap"
)

type AdminHandler struct {
	authorizer *middleware.AdminAuthorizer
	sessions   *session.Manager
}

func NewAdminHandler(authorizer *middleware.AdminAuthorizer, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{
		authorizer: authorizer,
		sessions:   sessions,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- POST /api/admin-login ---

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	// a missing or malformed body is just a failed login
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req)

	if !h.authorizer.CheckCredentials(req.Username, req.Password) {
		logging.FromContext(ctx).Info(ctx, "admin login rejected")
		writeJSON(w, http.StatusUnauthorized, successResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if err := h.sessions.Start(ctx, w); err != nil {
		logging.FromContext(ctx).Error(ctx, "Error starting admin session", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "admin logged in")
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// --- POST /api/admin-logout ---

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.End(w, r); err != nil {
		logging.FromContext(ctx).Warn(ctx, "Error revoking admin session", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
