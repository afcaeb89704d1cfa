package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"memberflow_backend/internal/feature/auth/usecase"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	LoginFunc   func(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error)
	RefreshFunc func(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error)
	LogoutFunc  func(ctx context.Context, refreshToken string) error
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, userAgent, ipAddress)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken, userAgent, ipAddress)
	}
	return nil, usecase.ErrSessionNotFound
}

func (m *mockAuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockLoginFunc  func(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error) {
				return &usecase.TokenPair{AccessToken: "dummy-jwt", RefreshToken: "dummy-refresh"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"access_token": "dummy-jwt", "refresh_token": "dummy-refresh"},
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "password": "password123"},
			mockLoginFunc:  nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "test@example.com"},
			mockLoginFunc:  nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:        "failure: wrong credentials stay hidden",
			requestBody: gin.H{"email": "wrong@example.com", "password": "wrong-password"},
			mockLoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, error) {
				return nil, usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid email or password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{LoginFunc: tt.mockLoginFunc}
			h := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/login", h.Login)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		requestBody     gin.H
		mockRefreshFunc func(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error)
		expectedStatus  int
		expectedBody    gin.H
	}{
		{
			name:        "success: session rotated",
			requestBody: gin.H{"refresh_token": "old-refresh"},
			mockRefreshFunc: func(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error) {
				return &usecase.TokenPair{AccessToken: "fresh-jwt", RefreshToken: "fresh-refresh"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"access_token": "fresh-jwt", "refresh_token": "fresh-refresh"},
		},
		{
			name:            "failure: missing token",
			requestBody:     gin.H{},
			mockRefreshFunc: nil, // Usecase is not called
			expectedStatus:  http.StatusBadRequest,
			expectedBody:    gin.H{"error": "invalid request"},
		},
		{
			name:        "failure: revoked session",
			requestBody: gin.H{"refresh_token": "revoked"},
			mockRefreshFunc: func(ctx context.Context, refreshToken, userAgent, ipAddress string) (*usecase.TokenPair, error) {
				return nil, usecase.ErrSessionRevoked
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid refresh token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{RefreshFunc: tt.mockRefreshFunc}
			h := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/refresh", h.Refresh)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/refresh", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockAuthUsecase{
		LogoutFunc: func(ctx context.Context, refreshToken string) error { return nil },
	}
	h := NewAuthHandler(mockUC)

	router := gin.New()
	router.POST("/logout", h.Logout)

	body, _ := json.Marshal(gin.H{"refresh_token": "some-refresh"})
	req, _ := http.NewRequest(http.MethodPost, "/logout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"logged out"}`, w.Body.String())
}
