package dto

import (
	"time"

	"github.com/google/uuid"

	"userapi/internal/feature/users/domain/entity"
)

// UserResponse is the outward projection of a persisted user.
// It deliberately omits password, email, and name.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	LastLogin time.Time `json:"lastLogin"`
	Token     string    `json:"token"`
	Active    bool      `json:"active"`
}

// ErrorResponse is the single-message error body shape.
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewUserResponse projects a user entity into the response shape.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Created:   u.Created,
		Modified:  u.Modified,
		LastLogin: u.LastLogin,
		Token:     u.Token,
		Active:    u.Active,
	}
}

// NewUserResponses projects a slice of user entities.
func NewUserResponses(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
