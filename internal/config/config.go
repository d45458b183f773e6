package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the checkout service.
type Config struct {
	HTTP      HTTPConfig
	SMS       SMSConfig
	Ledger    LedgerConfig
	Pixel     PixelConfig
	Redirect  RedirectConfig
	Pipeline  PipelineConfig
	Promo     PromoConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace int
}

type SMSConfig struct {
	GatewayURL   string
	AuthToken    string
	CountryCode  string
	SalesNumbers []string
	Timeout      time.Duration
}

type LedgerConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

type PixelConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type RedirectConfig struct {
	WhatsAppNumber       string
	CountryCode          string
	AndroidFallbackDelay time.Duration
	IOSFallbackDelay     time.Duration
}

// PipelineConfig covers the progress pacing and the conversion marker store.
// MarkerBackend selects memory, redis, or postgres.
type PipelineConfig struct {
	MinStageDwell  time.Duration
	Namespace      string
	SessionTTL     time.Duration
	MarkerBackend  string
	RedisAddr      string
	DatabaseURL    string
	AutoMigrate    bool
	MigrationsPath string
}

type PromoConfig struct {
	Interval        time.Duration
	CountdownWindow time.Duration
	InitialStock    int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort             = 8080
	defaultMetricsPath          = "/metrics"
	defaultShutdownGrace        = 15
	defaultCountryCode          = "977"
	defaultProviderTimeout      = 10 * time.Second
	defaultAndroidFallbackDelay = 1200 * time.Millisecond
	defaultIOSFallbackDelay     = 2500 * time.Millisecond
	defaultMinStageDwell        = 800 * time.Millisecond
	defaultNamespace            = "seetara"
	defaultSessionTTL           = 24 * time.Hour
	defaultMarkerBackend        = "memory"
	defaultMigrationsPath       = "migrations"
	defaultAutoMigrate          = true
	defaultPromoInterval        = 3 * time.Second
	defaultCountdownWindow      = 30 * time.Minute
	defaultInitialStock         = 12
	defaultServiceName          = "checkout-api"
	defaultServiceVersion       = "0.1.0"
	defaultEnvironment          = "development"
	defaultLogLevel             = "info"
	defaultOTelSampleRate       = 1.0
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	smsCfg, err := loadSMSConfig()
	if err != nil {
		return nil, fmt.Errorf("loading SMS config: %w", err)
	}

	ledgerCfg, err := loadLedgerConfig()
	if err != nil {
		return nil, fmt.Errorf("loading ledger config: %w", err)
	}

	pixelCfg, err := loadPixelConfig()
	if err != nil {
		return nil, fmt.Errorf("loading pixel config: %w", err)
	}

	redirectCfg, err := loadRedirectConfig()
	if err != nil {
		return nil, fmt.Errorf("loading redirect config: %w", err)
	}

	pipelineCfg, err := loadPipelineConfig()
	if err != nil {
		return nil, fmt.Errorf("loading pipeline config: %w", err)
	}

	promoCfg, err := loadPromoConfig()
	if err != nil {
		return nil, fmt.Errorf("loading promo config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:      httpCfg,
		SMS:       smsCfg,
		Ledger:    ledgerCfg,
		Pixel:     pixelCfg,
		Redirect:  redirectCfg,
		Pipeline:  pipelineCfg,
		Promo:     promoCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port := defaultHTTPPort
	if value, ok := os.LookupEnv("API_HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_HTTP_PORT: %w", err)
		}
		port = parsed
	}

	shutdownGrace := defaultShutdownGrace
	if value, ok := os.LookupEnv("API_SHUTDOWN_GRACE_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_SHUTDOWN_GRACE_SECONDS: %w", err)
		}
		shutdownGrace = parsed
	}

	metricsPath := getEnvOrDefault("API_METRICS_PATH", defaultMetricsPath)

	return HTTPConfig{
		Port:          port,
		MetricsPath:   metricsPath,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadSMSConfig() (SMSConfig, error) {
	timeout, err := getDurationEnv("SMS_TIMEOUT", defaultProviderTimeout)
	if err != nil {
		return SMSConfig{}, err
	}

	var salesNumbers []string
	if value, ok := os.LookupEnv("SMS_SALES_NUMBERS"); ok && value != "" {
		for _, number := range strings.Split(value, ",") {
			salesNumbers = append(salesNumbers, strings.TrimSpace(number))
		}
	}

	return SMSConfig{
		GatewayURL:   os.Getenv("SMS_GATEWAY_URL"),
		AuthToken:    os.Getenv("SMS_AUTH_TOKEN"),
		CountryCode:  getEnvOrDefault("SMS_COUNTRY_CODE", defaultCountryCode),
		SalesNumbers: salesNumbers,
		Timeout:      timeout,
	}, nil
}

func loadLedgerConfig() (LedgerConfig, error) {
	timeout, err := getDurationEnv("LEDGER_TIMEOUT", defaultProviderTimeout)
	if err != nil {
		return LedgerConfig{}, err
	}

	return LedgerConfig{
		WebhookURL: os.Getenv("LEDGER_WEBHOOK_URL"),
		Timeout:    timeout,
	}, nil
}

func loadPixelConfig() (PixelConfig, error) {
	timeout, err := getDurationEnv("PIXEL_TIMEOUT", defaultProviderTimeout)
	if err != nil {
		return PixelConfig{}, err
	}

	return PixelConfig{
		Endpoint: os.Getenv("PIXEL_ENDPOINT"),
		Timeout:  timeout,
	}, nil
}

func loadRedirectConfig() (RedirectConfig, error) {
	androidDelay, err := getDurationEnv("REDIRECT_ANDROID_FALLBACK_DELAY", defaultAndroidFallbackDelay)
	if err != nil {
		return RedirectConfig{}, err
	}

	iosDelay, err := getDurationEnv("REDIRECT_IOS_FALLBACK_DELAY", defaultIOSFallbackDelay)
	if err != nil {
		return RedirectConfig{}, err
	}

	return RedirectConfig{
		WhatsAppNumber:       os.Getenv("REDIRECT_WHATSAPP_NUMBER"),
		CountryCode:          getEnvOrDefault("REDIRECT_COUNTRY_CODE", defaultCountryCode),
		AndroidFallbackDelay: androidDelay,
		IOSFallbackDelay:     iosDelay,
	}, nil
}

func loadPipelineConfig() (PipelineConfig, error) {
	minDwell, err := getDurationEnv("PIPELINE_MIN_STAGE_DWELL", defaultMinStageDwell)
	if err != nil {
		return PipelineConfig{}, err
	}

	sessionTTL, err := getDurationEnv("PIPELINE_SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return PipelineConfig{}, err
	}

	backend := getEnvOrDefault("MARKER_BACKEND", defaultMarkerBackend)
	switch backend {
	case "memory", "redis", "postgres":
	default:
		return PipelineConfig{}, fmt.Errorf("invalid MARKER_BACKEND %q: must be memory, redis, or postgres", backend)
	}

	autoMigrate := defaultAutoMigrate
	if value, ok := os.LookupEnv("AUTO_MIGRATE"); ok {
		autoMigrate = value == "true"
	}

	return PipelineConfig{
		MinStageDwell:  minDwell,
		Namespace:      getEnvOrDefault("ORDER_NAMESPACE", defaultNamespace),
		SessionTTL:     sessionTTL,
		MarkerBackend:  backend,
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AutoMigrate:    autoMigrate,
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadPromoConfig() (PromoConfig, error) {
	interval, err := getDurationEnv("PROMO_TICK_INTERVAL", defaultPromoInterval)
	if err != nil {
		return PromoConfig{}, err
	}

	window, err := getDurationEnv("PROMO_COUNTDOWN_WINDOW", defaultCountdownWindow)
	if err != nil {
		return PromoConfig{}, err
	}

	stock := defaultInitialStock
	if value, ok := os.LookupEnv("PROMO_INITIAL_STOCK"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return PromoConfig{}, fmt.Errorf("invalid PROMO_INITIAL_STOCK: %w", err)
		}
		stock = parsed
	}

	return PromoConfig{
		Interval:        interval,
		CountdownWindow: window,
		InitialStock:    stock,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	otelEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enableTracing := getBoolEnv("OTEL_ENABLE_TRACING", true)
	enableMetrics := getBoolEnv("OTEL_ENABLE_METRICS", true)

	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      logLevel,
		OTelEndpoint:  otelEndpoint,
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
