package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"payment-form/services/payment"
	"payment-form/utils"
)

type Config struct {
	Payment PaymentConfig
	ThreeDS payment.ChallengeConfig
	Server  ServerConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
}

type PaymentConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type ServerConfig struct {
	Port string
}

type SessionConfig struct {
	Secret string
	MaxAge int
	Secure bool
}

type RedisConfig struct {
	URL string
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		Payment: PaymentConfig{
			BaseURL:        os.Getenv("PAYMENT_API_BASE_URL"),
			RequestTimeout: durationEnv("PAYMENT_REQUEST_TIMEOUT", payment.RequestTimeout),
		},
		ThreeDS: payment.ChallengeConfig{
			ReturnURL:    os.Getenv("THREEDS_RETURN_URL"),
			ChallengeURL: os.Getenv("THREEDS_CHALLENGE_URL"),
			AllowSample:  boolEnv("ALLOW_SAMPLE_CHALLENGE", false),
		},
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			MaxAge: intEnv("SESSION_MAX_AGE", 1800),
			Secure: boolEnv("SESSION_SECURE", false),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Log: LogConfig{
			Level: os.Getenv("LOG_LEVEL"),
		},
	}

	if cfg.Payment.BaseURL == "" {
		cfg.Payment.BaseURL = "http://localhost:8080"
		log.Printf("Warning: PAYMENT_API_BASE_URL not set, using default: %s", cfg.Payment.BaseURL)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}

	if cfg.ThreeDS.ReturnURL == "" {
		cfg.ThreeDS.ReturnURL = "http://localhost:" + cfg.Server.Port + "/payment/complete"
		log.Printf("Warning: THREEDS_RETURN_URL not set, using default: %s", cfg.ThreeDS.ReturnURL)
	}

	if cfg.ThreeDS.ChallengeURL == "" {
		log.Printf("Warning: THREEDS_CHALLENGE_URL not set, the proxy must supply the ACS address")
	}

	if cfg.ThreeDS.AllowSample {
		log.Printf("Warning: ALLOW_SAMPLE_CHALLENGE enabled, missing 3DS tokens will be replaced with sample values")
	}

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = utils.GenerateRandomString(32)
		log.Printf("Warning: SESSION_SECRET not set, sessions will not survive a restart")
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default: %v", key, raw, def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default: %d", key, raw, def)
		return def
	}
	return n
}

func boolEnv(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default: %v", key, raw, def)
		return def
	}
	return b
}
