package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=smashcost port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort         string
	DatabaseDriver   string // postgres | sqlite
	DatabaseDSN      string
	JWTSecret        string
	JWTTTL           time.Duration
	CORSOrigins      string
	ProductImagePath string // folder where uploaded product pictures are written
	PublicBaseURL    string
	MaxImageBytes    int

	// pricing policy
	TVARate             float64
	TargetFoodCostRatio float64
	MarginAlertPercent  float64
	StudentMenuProducts []string

	// analysis service
	AnalysisProvider string // http | openai
	AnalysisEndpoint string
	AnalysisAPIKey   string
	AnalysisModel    string
	AnalysisBaseURL  string
	AnalysisTimeout  time.Duration
}

func Load() *Config {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDriver:   strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseDSN:      getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTTTL:           time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		ProductImagePath: getEnv("PRODUCT_IMAGE_PATH", "./product-images"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		MaxImageBytes:    getEnvInt("MAX_IMAGE_BYTES", 5<<20),

		TVARate:             getEnvFloat("TVA_RATE", 1.10),
		TargetFoodCostRatio: getEnvFloat("TARGET_FOOD_COST_RATIO", 0.30),
		MarginAlertPercent:  getEnvFloat("MARGIN_ALERT_PERCENT", 70),
		StudentMenuProducts: getEnvList("STUDENT_MENU_PRODUCTS", []string{"smash", "doublecheese"}),

		AnalysisProvider: strings.ToLower(getEnv("ANALYSIS_PROVIDER", "http")),
		AnalysisEndpoint: getEnv("ANALYSIS_ENDPOINT", ""),
		AnalysisAPIKey:   getEnv("ANALYSIS_API_KEY", ""),
		AnalysisModel:    getEnv("ANALYSIS_MODEL", "gpt-4o-mini"),
		AnalysisBaseURL:  getEnv("ANALYSIS_BASE_URL", ""),
		AnalysisTimeout:  time.Duration(getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 20)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters long")
	}
	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		log.Fatalf("[FATAL] DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN uses the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production.")
	}
	switch cfg.AnalysisProvider {
	case "http":
		if cfg.AnalysisEndpoint == "" {
			log.Println("[WARN] ANALYSIS_ENDPOINT is not set, product analysis will answer with the offline placeholder.")
		}
	case "openai":
		if cfg.AnalysisAPIKey == "" {
			log.Println("[WARN] ANALYSIS_API_KEY is not set, product analysis will answer with the offline placeholder.")
		}
	default:
		log.Fatalf("[FATAL] ANALYSIS_PROVIDER must be http or openai, got %q", cfg.AnalysisProvider)
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s=%q is not a positive integer, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil || f <= 0 {
		log.Printf("[WARN] %s=%q is not a positive number, using %v", key, v, def)
		return def
	}
	return f
}

// getEnvList reads a comma separated list. An explicitly empty list is not
// expressible, an unset variable gives def.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
