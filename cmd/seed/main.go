package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"homestay/internal/config"
	"homestay/internal/db"
	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/password"
	"homestay/internal/repository"
	"homestay/internal/service"
)

// demo hosts and guests; passwords satisfy the strength policy.
const demoUsersJSON = `[
  {"email": "amelia.hart@example.com", "first_name": "Amelia", "last_name": "Hart", "role": "HST", "password": "seaview-2847"},
  {"email": "jonas.weber@example.com", "first_name": "Jonas", "last_name": "Weber", "role": "HST", "password": "alpine-cabin-9"},
  {"email": "priya.nair@example.com",  "first_name": "Priya",  "last_name": "Nair", "role": "GST", "password": "wander-far-31"},
  {"email": "tom.okafor@example.com",  "first_name": "Tom",    "last_name": "Okafor", "role": "GST", "password": "citytrip-7512"}
]`

// SeedUserData is one fixture entry.
type SeedUserData struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var fixtures []SeedUserData
	if err := json.Unmarshal([]byte(demoUsersJSON), &fixtures); err != nil {
		log.Fatalf("Failed to parse fixtures: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	// nil cache: the wrapper is nil-safe and the seeder has no Redis
	userService := service.NewUserService(userRepo, nil, password.DefaultPolicy())
	ctx := context.Background()

	if err := seedSuperuser(ctx, userRepo, userService); err != nil {
		log.Fatalf("Failed to seed superuser: %v", err)
	}

	created, updated, err := seedUsers(ctx, userRepo, userService, fixtures)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users updated: %d", updated)
}

// seedSuperuser creates the admin account from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD, skipping when unset or already present.
func seedSuperuser(ctx context.Context, repo repository.UserRepository, svc service.UserService) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	pass := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || pass == "" {
		log.Println("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping superuser")
		return nil
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		log.Printf("Superuser %s already exists", email)
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("check superuser: %w", err)
	}

	_, err := svc.CreateSuperuser(ctx, service.CreateUserParams{
		Email:     email,
		Password:  pass,
		FirstName: "Site",
		LastName:  "Admin",
	})
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	log.Printf("Superuser %s created", email)
	return nil
}

// seedUsers upserts the demo users: existing records get their names and
// role refreshed, missing ones go through the regular factory.
func seedUsers(ctx context.Context, repo repository.UserRepository, svc service.UserService, fixtures []SeedUserData) (created int, updated int, err error) {
	for _, item := range fixtures {
		existing, err := repo.FindByEmail(ctx, item.Email)
		if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
			return created, updated, fmt.Errorf("error checking user %s: %w", item.Email, err)
		}

		if existing != nil {
			existing.FirstName = item.FirstName
			existing.LastName = item.LastName
			existing.Role = model.Role(item.Role)
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("error updating user %s: %w", item.Email, err)
			}
			updated++
			continue
		}

		_, err = svc.CreateUser(ctx, service.CreateUserParams{
			Email:     item.Email,
			Password:  item.Password,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Role:      model.Role(item.Role),
		})
		if err != nil {
			return created, updated, fmt.Errorf("error creating user %s: %w", item.Email, err)
		}
		created++
	}

	return created, updated, nil
}
