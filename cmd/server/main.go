package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/garnizeh/benchwise/api"
	dbfiles "github.com/garnizeh/benchwise/db"
	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/config"
	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/internal/db"
	"github.com/garnizeh/benchwise/internal/jobs"
	"github.com/garnizeh/benchwise/internal/repository/sqlite"
	"github.com/garnizeh/benchwise/pkg/ollama"
	"github.com/joho/godotenv"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	agent.SetLogger(logger)
	consultant.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting benchwise server", "version", version, "buildTime", buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations and seeds
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, dbfiles.Migrations, dbfiles.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(conn, logger).Repo()

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}

	gateway, err := agent.New(ctx, client, cfg.Engine, repo.Schema, repo.Template)
	if err != nil {
		log.Fatalf("Failed to create agent gateway: %v", err)
	}

	// Background queue for skill snapshots
	pool := jobs.NewWorkerPool(jobs.NewRepository(conn), map[string]jobs.Handler{
		jobs.TypeSkillSnapshot: jobs.SnapshotHandler(repo.Skill, repo.Snapshot),
	}, logger, cfg.WorkerCount)
	pool.Start(ctx)

	svc := consultant.NewService(repo, gateway, pool, consultant.MergePolicy(cfg.Engine.MergePolicy))

	handler := api.SetupRoutes(cfg, version, buildTime, repo, svc, gateway)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	pool.Stop()
	client.Close()

	if err := conn.Close(); err != nil {
		logger.Error("closing DB", "err", err)
	}

	logger.Info("server exited")
}
