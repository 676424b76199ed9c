package main

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx as database/sql driver
	"github.com/stridelabs/coach-gateway/internal/api"
	"github.com/stridelabs/coach-gateway/internal/auth"
	"github.com/stridelabs/coach-gateway/internal/icu"
	"github.com/stridelabs/coach-gateway/internal/knowledge"
	"github.com/stridelabs/coach-gateway/internal/plans"
	"github.com/stridelabs/coach-gateway/internal/storage"
	"github.com/stridelabs/coach-gateway/internal/store"
	"github.com/stridelabs/coach-gateway/internal/tools"
	"github.com/stridelabs/coach-gateway/internal/vault"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Logger
	logger := mustBuildLogger(envOrDefault("GATEWAY_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("GATEWAY_HTTP_PORT", "8080")
	postgresDSN := os.Getenv("POSTGRES_DSN")
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	credentialsKeyHex := os.Getenv("GATEWAY_CREDENTIALS_KEY")
	icuBaseURL := os.Getenv("ICU_BASE_URL") // empty means the public API
	knowledgeEndpoint := os.Getenv("KNOWLEDGE_ENDPOINT")
	userinfoEndpoint := os.Getenv("AUTH_USERINFO_ENDPOINT")
	cacheTTL := envOrDefaultInt("AUTH_CACHE_TTL_S", 30)

	logger.Info("starting coach gateway",
		zap.String("http_port", httpPort),
		zap.Bool("clickhouse_enabled", clickhouseDSN != ""),
		zap.Bool("knowledge_enabled", knowledgeEndpoint != ""),
	)

	// Postgres pool (required)
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}
	db, err := sql.Open("pgx", postgresDSN)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}
	pgStore := store.NewStore(db)
	logger.Info("postgres connected")

	// Credential vault. The key is 32 bytes hex-encoded and never logged.
	if credentialsKeyHex == "" {
		logger.Fatal("GATEWAY_CREDENTIALS_KEY is required")
	}
	credentialsKey, err := hex.DecodeString(credentialsKeyHex)
	if err != nil {
		logger.Fatal("GATEWAY_CREDENTIALS_KEY must be hex-encoded")
	}
	credentialVault, err := vault.New(credentialsKey, pgStore)
	if err != nil {
		logger.Fatal("failed to create credential vault", zap.Error(err))
	}

	// Verifier — identity provider, or a single static dev token
	var verifier auth.Verifier
	if userinfoEndpoint != "" {
		verifier = auth.NewHTTPVerifier(auth.HTTPVerifierConfig{
			Endpoint: userinfoEndpoint,
			CacheTTL: time.Duration(cacheTTL) * time.Second,
			Logger:   logger,
		})
		logger.Info("http verifier enabled")
	} else if hash := os.Getenv("GATEWAY_DEV_TOKEN_HASH"); hash != "" {
		verifier = auth.NewStaticVerifier(hash, envOrDefault("GATEWAY_DEV_SUBJECT", "dev-user"))
		logger.Warn("static dev verifier enabled, do not use in production")
	} else {
		logger.Fatal("AUTH_USERINFO_ENDPOINT or GATEWAY_DEV_TOKEN_HASH is required")
	}

	// Storage — ClickHouse or LogWriter fallback
	var writer storage.EventWriter
	if clickhouseDSN != "" {
		chWriter, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = storage.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse writer connected")
		}
	} else {
		writer = storage.NewLogWriter(logger)
		logger.Info("no CLICKHOUSE_DSN set, using log writer")
	}
	defer writer.Close()

	// External clients and services
	icuClient := icu.NewClient(icuBaseURL, logger)
	knowledgeClient := knowledge.NewClient(knowledgeEndpoint, logger)
	planService := plans.NewService(pgStore, logger)

	// Tool registry — the fixed startup list
	registry := tools.NewRegistry()
	registry.MustRegister(
		tools.NewActivitiesTool(credentialVault, icuClient),
		tools.NewWellnessTool(credentialVault, icuClient),
		tools.NewGetEventsTool(credentialVault, icuClient),
		tools.NewCreateEventTool(credentialVault, icuClient),
		tools.NewUpdateEventTool(credentialVault, icuClient),
		tools.NewKnowledgeTool(knowledgeClient),
		tools.NewPlanTool(planService),
	)

	// HTTP server
	deps := &api.Dependencies{
		Athletes: pgStore,
		Verifier: verifier,
		Registry: registry,
		Writer:   writer,
		Logger:   logger,
	}
	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("coach gateway stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
