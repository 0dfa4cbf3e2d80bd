package main

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultCoverImageSources = "https://archive.org https://*.archive.org"

type config struct {
	Addr      string
	DSN       string
	DBTimeout time.Duration

	OpenLibraryBaseURL   string
	OpenLibraryCoversURL string
	OpenLibraryRPS       int
	OpenLibraryUserAgent string
	CoverPlaceholder     string
	// CoverImageSources are the img-src origins browsers may load covers
	// from. The covers host redirects archived images to archive.org.
	CoverImageSources []string

	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
	EnableHSTS     bool

	LogLevel  string
	LogFormat string
	StaticDir string
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:                 listenAddr(),
		DSN:                  databaseDSN(),
		OpenLibraryBaseURL:   getEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
		OpenLibraryCoversURL: getEnv("OPENLIBRARY_COVERS_URL", "https://covers.openlibrary.org"),
		OpenLibraryUserAgent: getEnv("OPENLIBRARY_USER_AGENT", "bookshelf/1.0"),
		CoverPlaceholder:     getEnv("COVER_PLACEHOLDER", "/path/to/placeholder.jpg"),
		EnableHSTS:           os.Getenv("ENABLE_HSTS") == "true",
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
		StaticDir:            getEnv("STATIC_DIR", "public"),
	}

	cfg.CoverImageSources = append([]string{cfg.OpenLibraryCoversURL},
		strings.Fields(getEnv("COVER_IMAGE_SOURCES", defaultCoverImageSources))...)

	var err error
	if cfg.DBTimeout, err = time.ParseDuration(getEnv("DB_TIMEOUT", "5s")); err != nil {
		return config{}, fmt.Errorf("DB_TIMEOUT: %w", err)
	}
	if cfg.OpenLibraryRPS, err = strconv.Atoi(getEnv("OPENLIBRARY_RPS", "5")); err != nil {
		return config{}, fmt.Errorf("OPENLIBRARY_RPS: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20")); err != nil {
		return config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64); err != nil {
		return config{}, fmt.Errorf("MAX_BODY_BYTES: %w", err)
	}
	return cfg, nil
}

// listenAddr prefers APP_ADDR and falls back to a bare PORT.
func listenAddr() string {
	if v := os.Getenv("APP_ADDR"); v != "" {
		return v
	}
	return ":" + getEnv("PORT", "3000")
}

// databaseDSN prefers DB_DSN and otherwise assembles one from the
// individual DB_* variables.
func databaseDSN() string {
	if v := os.Getenv("DB_DSN"); v != "" {
		return v
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "postgres")),
		Host:   net.JoinHostPort(getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:   "/" + getEnv("DB_NAME", "booklibrary"),
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
