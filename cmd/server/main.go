package main

import (
	"log"
	"net/http"
	"os"

	_ "homestay/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"homestay/internal/auth"
	"homestay/internal/cache"
	"homestay/internal/config"
	"homestay/internal/db"
	"homestay/internal/handler"
	"homestay/internal/model"
	"homestay/internal/password"
	"homestay/internal/repository"
	"homestay/internal/router"
	"homestay/internal/service"
	"homestay/internal/validation"
)

// @title Homestay Identity API
// @version 1.0
// @description User registration, authentication, profile management and password change for the Homestay rental platform.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services and validators
	policy := password.DefaultPolicy()
	userService := service.NewUserService(userRepo, cacheClient, policy)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	registration := validation.NewRegistration(userRepo, policy, cfg.EmailCheckDomain)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, registration)
	authHandler := handler.NewAuthHandler(authService)

	// Register routes
	router.Register(e, cfg, userHandler, authHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
