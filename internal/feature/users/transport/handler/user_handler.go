// Package handler provides the HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"userapi/internal/feature/users/domain"
	"userapi/internal/feature/users/domain/entity"
	"userapi/internal/feature/users/transport/http/dto"
	"userapi/internal/feature/users/usecase"
)

// UserUsecase defines the user operations consumed by the HTTP layer.
// Following Go convention, the interface is defined by the consumer
// (handler), not the provider (usecase).
type UserUsecase interface {
	Create(ctx context.Context, in usecase.UserInput) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, in usecase.UserInput) (*entity.User, error)
	Patch(ctx context.Context, id uuid.UUID, in usecase.PatchUserInput) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Login(ctx context.Context, email string) (*entity.User, error)
}

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a new UserHandler with the injected usecase.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /api/users.
// Returns 201 with the projected user, 400 on invalid input, 409 when the
// email is already registered.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: firstBindingError(err)})
		return
	}

	user, err := h.users.Create(c.Request.Context(), toUserInput(req))
	if err != nil {
		h.writeDomainError(c, "create user failed", err)
		return
	}

	slog.Info("user created", "id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GetAll handles GET /api/users.
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

// GetByID handles GET /api/users/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, "get user failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id with full-replace semantics.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update user validation failed", "error", err, "id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: firstBindingError(err)})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, toUserInput(req))
	if err != nil {
		h.writeDomainError(c, "update user failed", err)
		return
	}

	slog.Info("user updated", "id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Patch handles PATCH /api/users/:id with partial-update semantics.
func (h *UserHandler) Patch(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("patch user validation failed", "error", err, "id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: firstBindingError(err)})
		return
	}

	in := usecase.PatchUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phones:   toPhoneInputs(req.Phones),
	}
	user, err := h.users.Patch(c.Request.Context(), id, in)
	if err != nil {
		h.writeDomainError(c, "patch user failed", err)
		return
	}

	slog.Info("user patched", "id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id. Returns 204 on success.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeDomainError(c, "delete user failed", err)
		return
	}

	slog.Info("user deleted", "id", id, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// Login handles POST /api/users/login.
// Refreshes the user's last login timestamp and token.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: firstBindingError(err)})
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email)
	if err != nil {
		h.writeDomainError(c, "login failed", err)
		return
	}

	slog.Info("user login successful", "id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// userID parses the :id path parameter, writing a 400 response on failure.
func (h *UserHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		slog.Warn("invalid user id", "id", c.Param("id"), "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeDomainError maps domain errors to HTTP statuses. Anything
// unclassified is logged with full detail and surfaced as a generic 500
// message, never leaking internals.
func (h *UserHandler) writeDomainError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmailFormat),
		errors.Is(err, domain.ErrInvalidPasswordFormat):
		slog.Warn(op, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		slog.Warn(op, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		slog.Warn(op, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	default:
		slog.Error(op, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "an unexpected error occurred"})
	}
}

// firstBindingError extracts the first field error from a binding failure.
// The error body carries a single message even when several fields fail.
func firstBindingError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "min":
			return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return "invalid request"
}

func toUserInput(req dto.UserRequest) usecase.UserInput {
	return usecase.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phones:   toPhoneInputs(req.Phones),
	}
}

func toPhoneInputs(phones []dto.PhoneRequest) []usecase.PhoneInput {
	if phones == nil {
		return nil
	}
	out := make([]usecase.PhoneInput, 0, len(phones))
	for _, p := range phones {
		out = append(out, usecase.PhoneInput{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return out
}
