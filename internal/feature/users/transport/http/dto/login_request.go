package dto

// LoginRequest represents the request body for the login endpoint.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}
