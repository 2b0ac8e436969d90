package config

import (
	"os"
	"strconv"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/dto"
)

type Config struct {
	ProjectID        string
	Port             string
	LogLevel         string
	Env              string
	VerificationMode dto.VerificationMode

	VerifierBaseURL string
	VerifierAPIKey  string
	VerifierTimeout time.Duration

	BlockchainAPIURL  string
	BlockchainTimeout time.Duration

	// CacheTTL applies to every status except pending, which uses PendingTTL.
	CacheTTL   time.Duration
	PendingTTL time.Duration
	// RecordTTL controls when durable records become eligible for deletion.
	RecordTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func New() *Config {
	return &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		Env:              getEnv("ENV", "development"),
		VerificationMode: getVerificationMode(os.Getenv("VERIFICATIONMODE")),

		VerifierBaseURL: getEnv("VERIFIERBASEURL", "https://api.nibss.com/v1"),
		VerifierAPIKey:  os.Getenv("VERIFIERAPIKEY"),
		VerifierTimeout: time.Duration(getEnvInt("VERIFIERTIMEOUTMS", 5000)) * time.Millisecond,

		BlockchainAPIURL:  getEnv("BLOCKCHAINAPIURL", "https://verified-block-mock.onrender.com"),
		BlockchainTimeout: time.Duration(getEnvInt("BLOCKCHAINTIMEOUTMS", 5000)) * time.Millisecond,

		CacheTTL:   time.Duration(getEnvInt("CACHETTLHOURS", 24)) * time.Hour,
		PendingTTL: time.Duration(getEnvInt("PENDINGTTLMINUTES", 5)) * time.Minute,
		RecordTTL:  time.Duration(getEnvInt("RECORDTTLHOURS", 24)) * time.Hour,

		RateLimitRPS:   float64(getEnvInt("RATELIMITMAXREQUESTS", 100)) / (float64(getEnvInt("RATELIMITWINDOWMS", 900000)) / 1000.0),
		RateLimitBurst: getEnvInt("RATELIMITBURST", 10),
	}
}

// RelaxedPrefixLookup reports whether unknown transaction id prefixes fall
// back to a random known bank instead of failing. Only outside production
// and only when real verification is not in effect.
func (c *Config) RelaxedPrefixLookup() bool {
	return c.Env == "development" || c.VerificationMode == dto.VerificationMock
}

func getVerificationMode(mode string) dto.VerificationMode {
	switch mode {
	case "real":
		return dto.VerificationReal
	case "hybrid":
		return dto.VerificationHybrid
	default:
		return dto.VerificationMock
	}
}

// ---- Helpers ----

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
