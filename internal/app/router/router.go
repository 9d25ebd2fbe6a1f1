package router

import (
	"time"

	"github.com/gin-gonic/gin"

	userhandler "userapi/internal/feature/users/transport/handler"
	"userapi/internal/platform/config"
	"userapi/internal/platform/http/handler"
	"userapi/internal/shared/ratelimiter"
)

// NewRouter assembles the HTTP routes.
// All user endpoints are public, matching the API's permit-all security
// posture; token validation middleware lives in platform/jwt for routes
// that may need it later.
func NewRouter(cfg config.Config, users *userhandler.UserHandler) *gin.Engine {
	r := gin.Default()

	// Liveness probe
	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	if cfg.RateLimitPerMinute > 0 {
		rl := ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		api.Use(rl.Middleware())
	}
	{
		api.POST("/users", users.Create)
		api.GET("/users", users.GetAll)
		api.POST("/users/login", users.Login)
		api.GET("/users/:id", users.GetByID)
		api.PUT("/users/:id", users.Update)
		api.PATCH("/users/:id", users.Patch)
		api.DELETE("/users/:id", users.Delete)
	}

	return r
}
