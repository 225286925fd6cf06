package main

import (
	"errors"
	"os"
	"strconv"
	"time"

	"widget-showcase/lazyload/application"
	"widget-showcase/lazyload/infra"
)

type config struct {
	listenAddr    string
	title         string
	widgetsFile   string
	scriptBaseURL string

	concurrency      int
	triggerMargin    float64
	triggerThreshold float64
	sessionTTL       time.Duration
	maxSessions      int

	fetchRPS     float64
	fetchBurst   int
	fetchTimeout time.Duration
	cacheTTL     time.Duration
	warmup       bool

	reportRPS   float64
	reportBurst int

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.title = os.Getenv("PAGE_TITLE")
	cfg.widgetsFile = os.Getenv("WIDGETS_FILE")
	cfg.scriptBaseURL = os.Getenv("SCRIPT_BASE_URL")

	cfg.concurrency = getenvIntDefault("LOAD_CONCURRENCY", infra.DefaultMaxConcurrent)
	cfg.triggerMargin = getenvFloatDefault("TRIGGER_MARGIN", application.DefaultTriggerMargin)
	cfg.triggerThreshold = getenvFloatDefault("TRIGGER_THRESHOLD", application.DefaultTriggerThreshold)
	cfg.sessionTTL = getenvDurationDefault("SESSION_TTL", 30*time.Minute)
	cfg.maxSessions = getenvIntDefault("MAX_SESSIONS", infra.DefaultMaxSessions)

	cfg.fetchRPS = getenvFloatDefault("SCRIPT_FETCH_RPS", 5)
	cfg.fetchBurst = getenvIntDefault("SCRIPT_FETCH_BURST", 5)
	cfg.fetchTimeout = getenvDurationDefault("SCRIPT_FETCH_TIMEOUT", 15*time.Second)
	cfg.cacheTTL = getenvDurationDefault("SCRIPT_CACHE_TTL", 10*time.Minute)
	cfg.warmup = getenvBoolDefault("WARMUP", false)

	// por sessão de página; 0 desliga o limite
	cfg.reportRPS = getenvFloatDefault("REPORT_RPS", 20)
	cfg.reportBurst = getenvIntDefault("REPORT_BURST", 40)

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = os.Getenv("STATS_REDIS_ADDR")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "widgets:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")

	if cfg.statsEnabled && cfg.statsRedisAddr == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.concurrency <= 0 {
		return config{}, errors.New("LOAD_CONCURRENCY must be > 0")
	}
	if cfg.triggerThreshold <= 0 || cfg.triggerThreshold > 1 {
		return config{}, errors.New("TRIGGER_THRESHOLD must be in (0, 1]")
	}
	if cfg.maxSessions <= 0 {
		return config{}, errors.New("MAX_SESSIONS must be > 0")
	}
	if cfg.fetchTimeout <= 0 {
		return config{}, errors.New("SCRIPT_FETCH_TIMEOUT must be > 0")
	}
	if cfg.reportRPS < 0 {
		return config{}, errors.New("REPORT_RPS must be >= 0")
	}
	if cfg.reportRPS > 0 && cfg.reportBurst <= 0 {
		return config{}, errors.New("REPORT_BURST must be > 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
