// Package api wires the HTTP surface: routing, middleware, and the
// handler-to-service composition.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"docvault/internal/api/handlers"
	"docvault/internal/api/middleware"
	"docvault/internal/config"
	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/folder"
	"docvault/internal/generate"
	"docvault/internal/insights"
	"docvault/internal/llm"
	"docvault/internal/progress"
	"docvault/internal/storage"
	"docvault/internal/summary"
)

// NewRouter builds the full API. sched may be nil when background
// generation is not configured; uploads then skip scheduling.
func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, sched document.GenerateScheduler) http.Handler {
	store := docstore.NewPG(db)
	st := storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)
	gw := llm.NewGateway(cfg.LLM)

	folders := folder.NewService(store)
	docs := document.NewService(store, st, folders, sched, cfg.Storage.Bucket, cfg.Storage.SignTTL)
	summaries := summary.NewService(store, generate.NewSummarizer(gw))
	insightStore := insights.NewService(store, generate.NewExtractor(gw))
	prog := progress.NewStore(store)

	health := handlers.NewHealthHandler(db, rdb)
	docHandler := handlers.NewDocumentHandler(docs, folders, int64(cfg.Upload.MaxFileSizeMB)<<20)
	folderHandler := handlers.NewFolderHandler(folders)
	summaryHandler := handlers.NewSummaryHandler(docs, summaries, prog)
	insightsHandler := handlers.NewInsightsHandler(docs, summaries, insightStore, prog)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}).Handler)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/folders", folderHandler.Create)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docHandler.Upload)
			r.Get("/", docHandler.Hierarchy)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/summary", summaryHandler.Get)
				r.Post("/summary", summaryHandler.Create)
				r.Put("/summary", summaryHandler.Update)
				r.Delete("/summary", summaryHandler.Delete)

				r.Get("/insights", insightsHandler.Get)
				r.Post("/insights", insightsHandler.Create)
				r.Put("/insights", insightsHandler.Update)
				r.Delete("/insights", insightsHandler.Delete)
			})
		})
	})

	return r
}
