package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/dev-connector/adapters/persistence"
	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/auth"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

// Seeds a demo account with a profile. Reads SEED_EMAIL and SEED_PASSWORD.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	ctx := context.Background()

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		appLogger.Fatal("SEED_EMAIL and SEED_PASSWORD are required", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		appLogger.Fatal("cannot hash password", err)
	}

	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect DB", err)
	}
	defer pool.Close()

	userRepo := persistence.NewPostgresUserRepo(pool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(pool, appLogger)

	u, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		now := time.Now().UTC()
		u = &user.User{
			ID:           uuid.New(),
			Name:         "Demo Developer",
			Email:        user.NormalizeEmail(email),
			PasswordHash: hash,
			Avatar:       user.GravatarURL(email),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			appLogger.Fatal("cannot add user", err)
		}
	}

	status, bio := "Developer", "Seeded demo profile"
	_, created, err := profileRepo.Upsert(ctx, u.ID, profile.Patch{
		Status: &status,
		Bio:    &bio,
		Skills: profile.ParseSkills("Go, PostgreSQL, Kafka"),
	})
	if err != nil {
		appLogger.Fatal("cannot seed profile", err)
	}

	fmt.Printf("seeded account '%s' (profile created: %t)\n", u.Email, created)
}
