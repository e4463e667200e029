package domain

// User is an API user of the exchange service. Authentication exchanges the
// user's API key for a short-lived JWT.
type User struct {
	UserID     string `json:"userID"` // Primary Key (UUID)
	Name       string `json:"name"`
	Email      string `json:"email"`
	APIKeyHash string `json:"-"` // SHA-256 hex digest of the API key
	IsActive   bool   `json:"isActive"`
	AuditFields
}
