package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/config"
	"github.com/culinara-ai/culinara/internal/db"
	dbRedis "github.com/culinara-ai/culinara/internal/db/redis"
	"github.com/culinara-ai/culinara/internal/domain"
	logpkg "github.com/culinara-ai/culinara/internal/logger"
	"github.com/culinara-ai/culinara/internal/metrics"
	"github.com/culinara-ai/culinara/internal/repository/corpus"
	"github.com/culinara-ai/culinara/internal/repository/embcache"
	chiTransport "github.com/culinara-ai/culinara/internal/transport/chi"
	"github.com/culinara-ai/culinara/internal/transport/duckduckgo"
	openaiTransport "github.com/culinara-ai/culinara/internal/transport/openai"
	"github.com/culinara-ai/culinara/internal/transport/webpage"
	answeruc "github.com/culinara-ai/culinara/internal/usecase/answer"
	fallbackuc "github.com/culinara-ai/culinara/internal/usecase/fallback"
	healthuc "github.com/culinara-ai/culinara/internal/usecase/health"
	rankuc "github.com/culinara-ai/culinara/internal/usecase/rank"
	"github.com/culinara-ai/culinara/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting culinara API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	var store db.Store
	store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAnswerMetrics()

	// Embedder chain: OpenAI -> cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		baseEmbedder, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Optional fact generator
	var generator answeruc.Generator
	var generatorHealth healthuc.ProviderChecker
	if cfg.Generation.Enabled {
		gen := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			Logger:      logger,
		})
		generator = gen
		generatorHealth = gen
		logger.Info("Fact generator enabled", zap.String("model", cfg.Generation.Model))
	}

	corpusRepo := corpus.New(store, cfg.Storage.KeyPrefix, cfg.Storage.IndexName)

	ranker := rankuc.New(rankuc.Config{
		PrimaryThreshold:   cfg.Ranking.PrimaryThreshold,
		SecondaryThreshold: cfg.Ranking.SecondaryThreshold,
	}, logger)

	searcher := duckduckgo.New(cfg.Fallback.SearchBaseURL, logger)
	fetcher := webpage.New(time.Duration(cfg.Fallback.FetchTimeoutSec)*time.Second, logger)
	fallbackSvc, err := fallbackuc.New(searcher, fetcher, fallbackuc.Config{
		MaxSearchResults: cfg.Fallback.MaxSearchResults,
		FetchConcurrency: cfg.Fallback.FetchConcurrency,
		SoftDeadline:     time.Duration(cfg.Fallback.SoftDeadlineSec) * time.Second,
		MaxExpandItems:   cfg.Fallback.MaxExpandItems,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create fallback service", zap.Error(err))
	}
	defer fallbackSvc.Release()

	answerSvc := answeruc.New(corpusRepo, embedder, ranker, fallbackSvc, generator, answeruc.Config{
		TopK:           cfg.Ranking.TopK,
		PoolMultiplier: cfg.Ranking.PoolMultiplier,
	})

	healthSvc := healthuc.New(store, baseEmbedder, generatorHealth)

	server := chiTransport.NewServer(answerSvc, corpusRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
