package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/folder"
	"docvault/internal/generate"
	"docvault/internal/insights"
	"docvault/internal/llm"
	"docvault/internal/progress"
	"docvault/internal/queue"
	"docvault/internal/queue/workers"
	"docvault/internal/storage"
	"docvault/internal/summary"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := docstore.NewPG(db)
	st := storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)
	gw := llm.NewGateway(cfg.LLM)

	folders := folder.NewService(store)
	docs := document.NewService(store, st, folders, nil, cfg.Storage.Bucket, cfg.Storage.SignTTL)
	summaries := summary.NewService(store, generate.NewSummarizer(gw))
	insightStore := insights.NewService(store, generate.NewExtractor(gw))
	prog := progress.NewStore(store)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	generateWorker := workers.NewGenerateWorker(docs, summaries, insightStore, prog)
	mux.HandleFunc(queue.TypeDocumentGenerate, generateWorker.ProcessTask)

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
