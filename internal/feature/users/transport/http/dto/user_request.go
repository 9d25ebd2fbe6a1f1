// Package dto defines data transfer objects for the users feature's HTTP
// transport layer.
package dto

// UserRequest is the full user payload used by create (POST) and full
// replace (PUT). Gin binding tags enforce required fields and the
// at-least-one-phone rule; email and password format checks run in the
// usecase against configured patterns.
type UserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required"`
	Password string         `json:"password" binding:"required"`
	Phones   []PhoneRequest `json:"phones" binding:"required,min=1,dive"`
}

// PatchUserRequest is the partial payload used by PATCH.
// Nil fields are left untouched. The phone list, when present, must still
// consist of complete records.
type PatchUserRequest struct {
	Name     *string        `json:"name"`
	Email    *string        `json:"email"`
	Password *string        `json:"password"`
	Phones   []PhoneRequest `json:"phones" binding:"omitempty,dive"`
}
