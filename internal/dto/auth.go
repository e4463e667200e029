package dto

import "time"

// LoginRequest carries the API key exchanged for a token.
type LoginRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// LoginResponse returns the signed token and its expiry.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
}
