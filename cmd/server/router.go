package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/api/docs"
	apiMiddleware "github.com/phrazzld/bookshelf-api/internal/api/middleware"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/apperr"
)

const apiVersion = "1.0.0"

// setupRouter creates the application router with all routes and
// middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.Recover(api.HandleAPIError))
	r.Use(apiMiddleware.Metrics(app.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{
			shared.TraceIDHeader,
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		MaxAge: 300,
	}))

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.MethodNotAllowedHandler)

	authorHandler := api.NewAuthorHandler(app.authorStore, app.logger)
	bookHandler := api.NewBookHandler(app.bookStore, app.authorStore, app.logger)
	routes := api.Routes(authorHandler, bookHandler)

	var limit func(http.Handler) http.Handler
	if app.limiter != nil {
		limit = apiMiddleware.RateLimit(apiMiddleware.RateLimitOptions{
			Limiter:   app.limiter,
			Window:    app.config.RateLimit.Window,
			OnLimited: app.metrics.RateLimited,
		}, api.HandleAPIError)
	}
	api.Mount(r, routes, limit)

	r.Get("/health", app.health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	if app.config.Docs.Enabled {
		doc := docs.Build(routes, docs.Info{
			Title:       "Bookshelf API",
			Version:     apiVersion,
			Description: "Manage authors and the books they wrote.",
		})
		if err := docs.Register(doc); err != nil {
			return nil, fmt.Errorf("failed to register API documentation: %w", err)
		}
		r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
		})
		r.Get("/docs/*", docs.Handler().ServeHTTP)
	}

	return r, nil
}

// health reports whether the database answers a ping.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		api.HandleAPIError(w, r, apperr.Internal(fmt.Errorf("health check: %w", err)))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// logRoutes writes the mounted routes at debug level.
func logRoutes(logger *slog.Logger, handler http.Handler) {
	routes, ok := handler.(chi.Routes)
	if !ok {
		return
	}
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logger.Debug("route mounted", slog.String("method", method), slog.String("route", route))
		return nil
	})
}
