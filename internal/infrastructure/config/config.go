package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabasePath    string

	// Question and feedback generation
	ProviderBaseURL string // OpenAI-compatible endpoint, e.g. "https://api.openai.com/v1"
	ProviderAPIKey  string
	ProviderModel   string // model name, e.g. "gpt-4o-mini"

	// Provider call discipline
	ProviderTimeout       time.Duration
	ProviderMaxAttempts   int
	ProviderBackoffBase   time.Duration
	ProviderMaxConcurrent int64
	ProviderFailFast      bool

	// Session coordination
	SessionLockTimeout time.Duration
	MaxRegenRounds     int

	// Path to the YAML interview profile; empty disables prewarming.
	InterviewProfile string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DatabasePath:    getenvDefault("DATABASE_PATH", "prepdeck.db"),

		ProviderBaseURL: getenvDefault("PROVIDER_BASE_URL", "https://api.openai.com/v1"),
		ProviderAPIKey:  mustGetenv("PROVIDER_API_KEY"),
		ProviderModel:   getenvDefault("PROVIDER_MODEL", "gpt-4o-mini"),

		ProviderTimeout:       getDurationDefault("PROVIDER_TIMEOUT", 60*time.Second),
		ProviderMaxAttempts:   getIntDefault("PROVIDER_MAX_ATTEMPTS", 3),
		ProviderBackoffBase:   getDurationDefault("PROVIDER_BACKOFF_BASE", time.Second),
		ProviderMaxConcurrent: int64(getIntDefault("PROVIDER_MAX_CONCURRENT", 8)),
		ProviderFailFast:      getBoolDefault("PROVIDER_FAIL_FAST", false),

		SessionLockTimeout: getDurationDefault("SESSION_LOCK_TIMEOUT", 5*time.Second),
		MaxRegenRounds:     getIntDefault("MAX_REGEN_ROUNDS", 2),

		InterviewProfile: os.Getenv("INTERVIEW_PROFILE"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getBoolDefault(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}
