package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rowanfell/mnemo-api/internal/api"
	apimiddleware "github.com/rowanfell/mnemo-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	studyHandler := api.NewStudyHandler(app.studyService)
	scheduleHandler := api.NewScheduleHandler(app.reviewService)
	statsHandler := api.NewStatsHandler(app.statsService)
	contentHandler := api.NewContentHandler(app.contentService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/study/next", studyHandler.NextItem)
			r.Put("/schedules/{id}", scheduleHandler.RecordReview)
			r.Delete("/schedules/{id}", scheduleHandler.ResetProgress)
			r.Get("/stats", statsHandler.Summary)

			r.Post("/topics", contentHandler.CreateTopic)
			r.Post("/decks", contentHandler.CreateDeck)
			r.Patch("/decks/{id}", contentHandler.UpdateDeck)
			r.Post("/cards", contentHandler.CreateCard)
			r.Delete("/cards/{id}", contentHandler.DeleteCard)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
