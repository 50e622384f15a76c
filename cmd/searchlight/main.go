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

	"github.com/searchlight-ai/searchlight/internal/config"
	dbRedis "github.com/searchlight-ai/searchlight/internal/db/redis"
	logpkg "github.com/searchlight-ai/searchlight/internal/logger"
	"github.com/searchlight-ai/searchlight/internal/metrics"
	"github.com/searchlight-ai/searchlight/internal/repository/anscache"
	"github.com/searchlight-ai/searchlight/internal/repository/quota"
	"github.com/searchlight-ai/searchlight/internal/repository/vector"
	chiTransport "github.com/searchlight-ai/searchlight/internal/transport/chi"
	openaiTransport "github.com/searchlight-ai/searchlight/internal/transport/openai"
	"github.com/searchlight-ai/searchlight/internal/transport/searxng"
	answeruc "github.com/searchlight-ai/searchlight/internal/usecase/answer"
	healthuc "github.com/searchlight-ai/searchlight/internal/usecase/health"
	"github.com/searchlight-ai/searchlight/internal/version"
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

	logger.Info("Starting searchlight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("search_base_url", cfg.Search.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Capability adapters -- composition root
	webSearch := searxng.New(&searxng.Config{
		BaseURL:    cfg.Search.BaseURL,
		TimeoutSec: cfg.Search.TimeoutSec,
		Logger:     logger,
	})

	chat := openaiTransport.NewChat(&openaiTransport.Config{
		APIKey:  cfg.Chat.APIKey,
		BaseURL: cfg.Chat.BaseURL,
		Logger:  logger,
	})

	// Personal vector index is optional; the pipeline treats nil as absent.
	var vectorSearch answeruc.VectorSearcher
	if cfg.Vector.Enabled {
		embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Chat.APIKey,
			BaseURL:    cfg.Chat.BaseURL,
			Model:      cfg.Vector.EmbeddingModel,
			Dimensions: cfg.Vector.Dimensions,
			Logger:     logger,
		})
		vectorSearch = vector.New(store, embedder, cfg.Vector.IndexName, cfg.Vector.TopK, logger)
		logger.Info("Personal vector search enabled",
			zap.String("index", cfg.Vector.IndexName),
			zap.String("embedding_model", cfg.Vector.EmbeddingModel),
		)
	}

	cache := anscache.New(store, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	limiter := quota.New(store, cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowHours)*time.Hour)

	orchestrator := answeruc.New(webSearch, vectorSearch, chat, cache, limiter, logger)
	healthSvc := healthuc.New(store, chat)

	server := chiTransport.NewServer(
		orchestrator, limiter, healthSvc,
		cfg.Chat.Models, cfg.Chat.DefaultModel, cfg.Auth.APIKeys,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

			// Canonical log line -- one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
