package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/bryanwahyu/inspection-ai/internal/application"
	"github.com/bryanwahyu/inspection-ai/internal/application/assets"
	"github.com/bryanwahyu/inspection-ai/internal/application/corpuscache"
	"github.com/bryanwahyu/inspection-ai/internal/application/frames"
	"github.com/bryanwahyu/inspection-ai/internal/application/inspection"
	"github.com/bryanwahyu/inspection-ai/internal/application/synthesis"
	"github.com/bryanwahyu/inspection-ai/internal/config"
	"github.com/bryanwahyu/inspection-ai/internal/domain/faults"
	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
	aiopenai "github.com/bryanwahyu/inspection-ai/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/inspection-ai/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/inspection-ai/internal/infra/db/postgres"
	"github.com/bryanwahyu/inspection-ai/internal/infra/httpserver"
	"github.com/bryanwahyu/inspection-ai/internal/infra/ingest/openaifiles"
	"github.com/bryanwahyu/inspection-ai/internal/infra/logging"
	minioStore "github.com/bryanwahyu/inspection-ai/internal/infra/storage"
	ffmpegdec "github.com/bryanwahyu/inspection-ai/internal/infra/video/ffmpeg"
	"github.com/bryanwahyu/inspection-ai/internal/middleware"
)

func main() {
	// .env opsional, buat dev lokal
	_ = godotenv.Load()

	logger := logging.NewLogger(os.Getenv("APP_ENV"))

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	// connect database sesuai driver
	var db *sql.DB
	var reportRepo report.Repository
	var faultRepo faults.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect error")
		}
		reportRepo = postgresp.NewReportRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("mysql connect error")
		}
		reportRepo = mysqlp.NewReportRepository(db)
		faultRepo = mysqlp.NewFaultRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("minio init error")
	}

	clock := application.SystemClock{}
	ingestor := openaifiles.NewClient(cfg.OpenAI.APIKey)

	sampler := &frames.Sampler{
		Decoder: ffmpegdec.NewDecoder(),
		Dir:     cfg.Inspection.FramesDir,
		Clock:   clock,
		Log:     logger,
	}
	tracker := &assets.Tracker{
		Ingest: ingestor,
		Faults: faultRepo,
		Clock:  clock,
		Log:    logger,
	}
	cache := &corpuscache.Cache{
		Ingest:       ingestor,
		StandardsDir: cfg.Inspection.StandardsDir,
		ExamplesDir:  cfg.Inspection.ExamplesDir,
		TTL:          cfg.Inspection.CacheTTL.Std(),
		Clock:        clock,
		Log:          logger,
	}
	synth := &synthesis.Orchestrator{
		Client: aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.AnalysisModel),
		Log:    logger,
	}

	svc := &inspection.Service{
		Sampler:        sampler,
		Tracker:        tracker,
		Corpus:         cache,
		Synth:          synth,
		Reports:        reportRepo,
		Artifacts:      store,
		Clock:          clock,
		Log:            logger,
		FramesDir:      cfg.Inspection.FramesDir,
		SampleInterval: cfg.Inspection.SampleInterval.Std(),
		PollInterval:   cfg.Inspection.PollInterval.Std(),
		MaxWait:        cfg.Inspection.MaxWait.Std(),
	}

	checkers := map[string]middleware.HealthChecker{
		"database":  &middleware.DatabaseHealthChecker{DB: db},
		"standards": &middleware.DirHealthChecker{Path: cfg.Inspection.StandardsDir},
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware(logger))
	if len(cfg.Server.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	}
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(100, 10))
	mux.Mount("/", httpserver.NewRouter(svc, reportRepo, faultRepo, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // report synthesis bisa lama
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
