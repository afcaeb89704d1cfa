// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/feature/auth/transport/http/dto"
	"memberflow_backend/internal/feature/auth/usecase"
	"memberflow_backend/internal/shared/httperr"
)

// AuthUsecase defines the auth operations the handler consumes.
// Following Go convention, the interface is defined by the consumer
// (handler), not the provider (usecase).
type AuthUsecase interface {
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error)
	Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthHandler handles the HTTP requests of the auth endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a user and answers with a token pair. The real cause
// of a failure is never exposed, preventing user enumeration.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{Error: "invalid email or password"})
		return
	}
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Refresh rotates a refresh session and answers with a fresh token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Logout revokes the presented refresh session.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "logged out"})
}
