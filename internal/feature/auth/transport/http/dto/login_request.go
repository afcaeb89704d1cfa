// Package dto defines the request payloads of the auth endpoints.
package dto

// LoginRequest is the payload of POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
