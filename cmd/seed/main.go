// Package main seeds the database with demo users, events, and RSVPs.
// Destructive: it truncates the existing tables first.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/evently/backend/config"
	"github.com/evently/backend/internal/auth"
	"github.com/evently/backend/internal/events"
	"github.com/evently/backend/internal/models"
	"github.com/evently/backend/internal/rsvps"
	"github.com/evently/backend/pkg/database"
	"github.com/evently/backend/pkg/utils"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	if _, err := pool.Exec(ctx, `TRUNCATE rsvps, events, users`); err != nil {
		logger.Fatal("truncate", zap.Error(err))
	}

	authRepo := auth.NewRepository(pool)
	eventRepo := events.NewRepository(pool)
	rsvpRepo := rsvps.NewRepository(pool)
	rsvpService := rsvps.NewService(eventRepo, rsvpRepo)

	hash, err := utils.HashPassword("password123")
	if err != nil {
		logger.Fatal("hash password", zap.Error(err))
	}

	organizer, err := authRepo.Create(ctx, "Olivia Chen", "olivia@example.com", hash, models.RoleOrganizer)
	if err != nil {
		logger.Fatal("create organizer", zap.Error(err))
	}
	attendee, err := authRepo.Create(ctx, "Sam Patel", "sam@example.com", hash, models.RoleAttendee)
	if err != nil {
		logger.Fatal("create attendee", zap.Error(err))
	}

	capTen := 10
	demo := []*models.Event{
		{
			Title:       "Go Meetup",
			Description: "Monthly Go meetup: talks and hallway track.",
			Date:        time.Now().AddDate(0, 0, 14),
			Time:        "18:30",
			Location:    "Community Hall, Room 2",
			OrganizerID: organizer.ID,
			Capacity:    &capTen,
			IsPublic:    true,
		},
		{
			Title:       "Board Games Night",
			Description: "Invite-only games night.",
			Date:        time.Now().AddDate(0, 1, 0),
			Time:        "20:00",
			Location:    "Olivia's place",
			OrganizerID: organizer.ID,
			IsPublic:    false,
		},
	}
	for _, e := range demo {
		if err := eventRepo.Create(ctx, e); err != nil {
			logger.Fatal("create event", zap.Error(err), zap.String("title", e.Title))
		}
	}

	if _, err := rsvpService.Register(ctx, demo[0].ID, attendee.ID); err != nil {
		logger.Fatal("register", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.String("organizer", organizer.Email),
		zap.String("attendee", attendee.Email),
		zap.Int("events", len(demo)),
	)
}
