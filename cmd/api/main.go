package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/myseetara/checkout/internal/checkout/adapters"
	httpadapter "github.com/myseetara/checkout/internal/checkout/adapters/http"
	"github.com/myseetara/checkout/internal/checkout/adapters/pixel"
	"github.com/myseetara/checkout/internal/checkout/adapters/sheets"
	"github.com/myseetara/checkout/internal/checkout/adapters/sms"
	"github.com/myseetara/checkout/internal/checkout/app"
	"github.com/myseetara/checkout/internal/checkout/conversion"
	checkoutmetrics "github.com/myseetara/checkout/internal/checkout/metrics"
	"github.com/myseetara/checkout/internal/checkout/ports"
	"github.com/myseetara/checkout/internal/checkout/progress"
	"github.com/myseetara/checkout/internal/config"
	"github.com/myseetara/checkout/internal/database"
	"github.com/myseetara/checkout/internal/markers"
	markersmemory "github.com/myseetara/checkout/internal/markers/memory"
	markerspostgres "github.com/myseetara/checkout/internal/markers/postgres"
	markersredis "github.com/myseetara/checkout/internal/markers/redis"
	"github.com/myseetara/checkout/internal/promo"
	"github.com/myseetara/checkout/internal/providers"
	"github.com/myseetara/checkout/internal/redirect"
	"github.com/myseetara/checkout/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := otel.Meter("github.com/myseetara/checkout")

	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	pipelineMetrics, err := checkoutmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create pipeline metrics", "error", err)
		os.Exit(1)
	}
	providerMetrics, err := providers.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create provider metrics", "error", err)
		os.Exit(1)
	}

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}

	markerStore, readiness, cleanup, err := buildMarkerStore(ctx, cfg.Pipeline, logger)
	if err != nil {
		logger.Error("failed to create marker store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	notifier := buildNotifier(cfg.SMS, logger)
	ledger := buildLedger(cfg.Ledger, logger)
	sink := buildConversionSink(cfg.Pixel, logger)

	emitter := conversion.NewEmitter(
		markers.NewObservableStore(markerStore, dbMetrics),
		adapters.NewObservableConversionSink(sink, providerMetrics),
		cfg.Pipeline.SessionTTL,
		logger,
		pipelineMetrics,
	)

	service := app.NewService(
		adapters.NewObservableNotifier(notifier, providerMetrics),
		adapters.NewObservableLedger(ledger, providerMetrics),
		emitter,
		redirect.UserAgentClassifier{},
		progress.NewRunner(cfg.Pipeline.MinStageDwell),
		app.Config{
			Namespace: cfg.Pipeline.Namespace,
			Redirect: redirect.Config{
				WhatsAppNumber:       cfg.Redirect.WhatsAppNumber,
				CountryCode:          cfg.Redirect.CountryCode,
				AndroidFallbackDelay: cfg.Redirect.AndroidFallbackDelay,
				IOSFallbackDelay:     cfg.Redirect.IOSFallbackDelay,
			},
		},
		logger,
		pipelineMetrics,
	)

	pulse := promo.NewTicker(promo.Config{
		Interval:        cfg.Promo.Interval,
		CountdownWindow: cfg.Promo.CountdownWindow,
		MinViewers:      20,
		MaxViewers:      80,
		InitialStock:    cfg.Promo.InitialStock,
		MinStock:        3,
	})
	go pulse.Run(ctx)

	checkoutHandler := httpadapter.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := readiness(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.HandleFunc(cfg.HTTP.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		// Metrics ship through the OTLP exporter; this path only confirms that.
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# metrics are exported via OTLP\n"))
	})
	mux.HandleFunc("/v1/promo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		respondJSON(w, http.StatusOK, pulse.Snapshot())
	})

	checkoutHandler.Register(mux)

	handler := withRecovery(withLogging(httpadapter.WithRequestID(httpadapter.WithMetrics(mux, httpMetrics))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port, "marker_backend", cfg.Pipeline.MarkerBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

// buildMarkerStore selects the conversion-marker backend. It returns the
// store, a readiness probe for the chosen backend, and a cleanup to run on
// shutdown.
func buildMarkerStore(
	ctx context.Context,
	cfg config.PipelineConfig,
	logger *slog.Logger,
) (ports.MarkerStore, func(context.Context) error, func(), error) {
	switch cfg.MarkerBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		readiness := func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
		return markersredis.NewStore(client), readiness, cleanup, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		if cfg.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.MigrationsPath)
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				pool.Close()
				return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		readiness := func(ctx context.Context) error {
			return database.CheckHealth(ctx, pool)
		}
		return markerspostgres.NewStore(pool), readiness, pool.Close, nil

	default:
		readiness := func(context.Context) error { return nil }
		return markersmemory.NewStore(), readiness, func() {}, nil
	}
}

func buildNotifier(cfg config.SMSConfig, logger *slog.Logger) ports.Notifier {
	if cfg.GatewayURL == "" {
		logger.Warn("SMS gateway not configured, using noop notifier")
		return providers.NewNoopNotifier()
	}
	return sms.NewClient(sms.Config{
		GatewayURL:   cfg.GatewayURL,
		AuthToken:    cfg.AuthToken,
		CountryCode:  cfg.CountryCode,
		SalesNumbers: cfg.SalesNumbers,
		Timeout:      cfg.Timeout,
	})
}

func buildLedger(cfg config.LedgerConfig, logger *slog.Logger) ports.Ledger {
	if cfg.WebhookURL == "" {
		logger.Warn("ledger webhook not configured, using noop ledger")
		return providers.NewNoopLedger()
	}
	return sheets.NewClient(cfg.WebhookURL, cfg.Timeout)
}

func buildConversionSink(cfg config.PixelConfig, logger *slog.Logger) ports.ConversionSink {
	if cfg.Endpoint == "" {
		logger.Warn("pixel endpoint not configured, using noop conversion sink")
		return providers.NewNoopConversionSink()
	}
	return pixel.NewClient(cfg.Endpoint, cfg.Timeout)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
			"request_id", httpadapter.RequestIDFrom(r.Context()),
		)
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
