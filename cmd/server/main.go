package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"userapi/internal/app/di"
	"userapi/internal/app/router"
	userhandler "userapi/internal/feature/users/transport/handler"
	userusecase "userapi/internal/feature/users/usecase"
	"userapi/internal/platform/config"
	infradb "userapi/internal/platform/db"
	infraredis "userapi/internal/platform/redis"
	jwtmw "userapi/internal/platform/jwt"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	db := infradb.OpenDB(cfg)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository (Redis-cached when available)
	userRepo := di.NewUserRepository(rdb, db, cfg)

	// Validation patterns come from configuration, not constants
	validator, err := userusecase.NewValidator(cfg.EmailRegex, cfg.PasswordRegex)
	if err != nil {
		log.Fatalf("invalid validation pattern: %v", err)
	}

	// Token issuer
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration)

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo, tokens, validator)

	// Handler
	userH := userhandler.NewUserHandler(userUC)

	router := router.NewRouter(cfg, userH)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
