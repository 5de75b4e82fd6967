package handlers

import (
	"net/http"

	"github.com/pantryhub/pantry/internal/middleware"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

func (handler *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := handler.authService.Register(r.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, TokenResponse{AccessToken: token, User: user})
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := handler.authService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, User: user})
}

func (handler *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}
