package browser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"payment-form/browser"
	"payment-form/types"
)

func TestEnvironment_ResizeNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	env := browser.NewEnvironment(types.BrowserContext{UserAgent: "ua", ScreenWidth: 100, ScreenHeight: 100})

	var seen []types.BrowserContext
	unsubscribe := env.Subscribe(func(c types.BrowserContext) { seen = append(seen, c) })

	env.Resize(640, 480)
	unsubscribe()
	unsubscribe()
	env.Resize(1, 1)

	assert.Len(t, seen, 1)
	assert.Equal(t, 640, seen[0].ScreenWidth)
	assert.Equal(t, "ua", seen[0].UserAgent)
	assert.Equal(t, 0, env.Subscribers())
	assert.Equal(t, 1, env.Snapshot().ScreenWidth)
}

func TestLocalContext(t *testing.T) {
	t.Setenv("LANG", "pt_BR.UTF-8")

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	c := browser.LocalContext(now, 1920, 1080)

	assert.Equal(t, "pt-BR", c.Language)
	assert.Equal(t, "-03:00", c.UTCOffset)
	assert.Equal(t, 180, c.TimezoneOffset)
	assert.Equal(t, 1920, c.ScreenWidth)
	assert.Equal(t, 24, c.ColorDepth)
	assert.Contains(t, c.UserAgent, "payment-form/")
	assert.False(t, c.JavaEnabled)
}
