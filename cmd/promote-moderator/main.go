package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/craterhub/crater-api/internal/config"
	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-moderator <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userService := services.NewUserService(db)

	if err := userService.SetRole(ctx, email, models.RoleModerator); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Fatal().Str("email", email).Msg("no user found with that email")
		}
		log.Fatal().Err(err).Msg("failed to update user")
	}

	fmt.Printf("Successfully promoted %s to moderator\n", email)
}
