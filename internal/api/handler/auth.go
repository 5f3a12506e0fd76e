package handler

import (
	"net/http"

	"github.com/dustwatch/dustwatch/internal/api/response"
	"github.com/dustwatch/dustwatch/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAnonymous handles POST /v1/auth/anonymous - mint a fresh anonymous
// device identity and its bearer token.
func (h *AuthHandler) RegisterAnonymous(w http.ResponseWriter, r *http.Request) {
	pair, err := h.authService.RegisterAnonymous()
	if err != nil {
		response.InternalError(w, r, "failed to register device")
		return
	}

	response.Created(w, r, "", pair)
}
