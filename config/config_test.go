package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"payment-form/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PAYMENT_API_BASE_URL", "PAYMENT_REQUEST_TIMEOUT", "THREEDS_RETURN_URL", "THREEDS_CHALLENGE_URL",
		"ALLOW_SAMPLE_CHALLENGE", "SERVER_PORT", "SESSION_SECRET", "SESSION_MAX_AGE", "SESSION_SECURE",
		"REDIS_URL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := config.FromEnv()

	assert.Equal(t, "http://localhost:8080", cfg.Payment.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Payment.RequestTimeout)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000/payment/complete", cfg.ThreeDS.ReturnURL)
	assert.False(t, cfg.ThreeDS.AllowSample)
	assert.Len(t, cfg.Session.Secret, 32)
	assert.Equal(t, 1800, cfg.Session.MaxAge)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PAYMENT_API_BASE_URL", "https://pay.test")
	t.Setenv("PAYMENT_REQUEST_TIMEOUT", "5s")
	t.Setenv("THREEDS_RETURN_URL", "https://shop.test/done")
	t.Setenv("THREEDS_CHALLENGE_URL", "https://acs.test/challenge")
	t.Setenv("ALLOW_SAMPLE_CHALLENGE", "true")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("SESSION_MAX_AGE", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.FromEnv()

	assert.Equal(t, "https://pay.test", cfg.Payment.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Payment.RequestTimeout)
	assert.Equal(t, "https://shop.test/done", cfg.ThreeDS.ReturnURL)
	assert.Equal(t, "https://acs.test/challenge", cfg.ThreeDS.ChallengeURL)
	assert.True(t, cfg.ThreeDS.AllowSample)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Session.Secret)
	assert.Equal(t, 1800, cfg.Session.MaxAge)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
