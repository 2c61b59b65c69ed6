package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rowanfell/mnemo-api/internal/config"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/platform/postgres"
	"github.com/rowanfell/mnemo-api/internal/service/auth"
	"github.com/rowanfell/mnemo-api/internal/service/content"
	"github.com/rowanfell/mnemo-api/internal/service/review"
	"github.com/rowanfell/mnemo-api/internal/service/stats"
	"github.com/rowanfell/mnemo-api/internal/service/study"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// application bundles the server's wired dependencies.
type application struct {
	config *config.Config
	db     *sql.DB
	logger *slog.Logger

	userStore      store.UserStore
	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher

	studyService   study.StudyService
	reviewService  review.ReviewService
	statsService   stats.StatsService
	contentService content.ContentService
}

// newApplication wires stores and services from configuration and an
// open database handle.
func newApplication(cfg *config.Config, db *sql.DB) (*application, error) {
	log := slog.Default()

	sm2Service, err := buildSM2Service(cfg.Study)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	topicStore := postgres.NewPostgresTopicStore(db, log)
	deckStore := postgres.NewPostgresDeckStore(db, log)
	cardStore := postgres.NewPostgresCardStore(db, log)
	scheduleStore := postgres.NewPostgresScheduleStore(db, log)

	return &application{
		config:         cfg,
		db:             db,
		logger:         log,
		userStore:      userStore,
		jwtService:     auth.NewJWTService(cfg.Auth),
		passwordHasher: auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		studyService:   study.NewStudyService(scheduleStore, sm2Service, log),
		reviewService:  review.NewReviewService(db, scheduleStore, sm2Service, log),
		statsService:   stats.NewStatsService(scheduleStore, sm2Service, log),
		contentService: content.NewContentService(db, topicStore, deckStore, cardStore, scheduleStore, log),
	}, nil
}

// buildSM2Service resolves the configured time zone for calendar-day
// due computation.
func buildSM2Service(cfg config.StudyConfig) (sm2.Service, error) {
	if cfg.Timezone == "" {
		return sm2.NewDefaultService(), nil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid study timezone %q: %w", cfg.Timezone, err)
	}

	params := sm2.NewDefaultParams()
	params.Location = loc
	return sm2.NewServiceWithParams(params), nil
}
