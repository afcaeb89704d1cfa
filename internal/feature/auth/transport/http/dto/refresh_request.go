package dto

// RefreshRequest is the payload of POST /refresh and POST /logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
