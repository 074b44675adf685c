package config

import "testing"

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SC_TEST_INT", "12")
	t.Setenv("SC_TEST_BAD_INT", "douze")
	t.Setenv("SC_TEST_FLOAT", "1,055")
	t.Setenv("SC_TEST_NEG_FLOAT", "-3")
	t.Setenv("SC_TEST_LIST", " smash, ,crunchy ")

	if got := getEnv("SC_TEST_UNSET", "def"); got != "def" {
		t.Fatalf("getEnv default = %q", got)
	}
	if got := getEnvInt("SC_TEST_INT", 1); got != 12 {
		t.Fatalf("getEnvInt = %d, want 12", got)
	}
	if got := getEnvInt("SC_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("getEnvInt fallback = %d, want 7", got)
	}
	if got := getEnvFloat("SC_TEST_FLOAT", 1.10); got != 1.055 {
		t.Fatalf("getEnvFloat = %v, want 1.055", got)
	}
	if got := getEnvFloat("SC_TEST_NEG_FLOAT", 0.30); got != 0.30 {
		t.Fatalf("getEnvFloat fallback = %v, want 0.30", got)
	}

	list := getEnvList("SC_TEST_LIST", nil)
	if len(list) != 2 || list[0] != "smash" || list[1] != "crunchy" {
		t.Fatalf("getEnvList = %v", list)
	}
	if def := getEnvList("SC_TEST_UNSET", []string{"a"}); len(def) != 1 {
		t.Fatalf("getEnvList default = %v", def)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("PUBLIC_BASE_URL", "https://cost.example.com/")
	t.Setenv("MARGIN_ALERT_PERCENT", "65")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "5")
	t.Setenv("ANALYSIS_PROVIDER", "OpenAI")
	t.Setenv("ANALYSIS_MODEL", "gpt-4o")

	cfg := Load()
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("driver = %q", cfg.DatabaseDriver)
	}
	if cfg.PublicBaseURL != "https://cost.example.com" {
		t.Fatalf("base url = %q", cfg.PublicBaseURL)
	}
	if cfg.MarginAlertPercent != 65 || cfg.TVARate != 1.10 || cfg.TargetFoodCostRatio != 0.30 {
		t.Fatalf("pricing settings = %v %v %v", cfg.MarginAlertPercent, cfg.TVARate, cfg.TargetFoodCostRatio)
	}
	if cfg.AnalysisTimeout.Seconds() != 5 {
		t.Fatalf("analysis timeout = %v", cfg.AnalysisTimeout)
	}
	if cfg.AnalysisProvider != "openai" || cfg.AnalysisModel != "gpt-4o" {
		t.Fatalf("analysis backend = %q %q", cfg.AnalysisProvider, cfg.AnalysisModel)
	}
}
