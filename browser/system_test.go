package browser

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSystemOpener_RemovesChallengePage(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	copied := filepath.Join(t.TempDir(), "opened.html")

	// the launcher copies the page it was given so its content can be checked
	opener := NewSystemOpener(zap.NewNop(), "sh", "-c", `cat "${1#file://}" > "$0"`, copied)
	opener.cleanupDelay = 0

	doc := []byte(`<html><body><form method="post" action="https://acs.test"><input name="PaReq" value="x"></form></body></html>`)
	require.NoError(t, AutoSubmit(context.Background(), opener, doc))

	assert.Eventually(t, func() bool {
		pages, _ := filepath.Glob(filepath.Join(tmp, "payment-3ds-*.html"))
		return len(pages) == 0
	}, 5*time.Second, 20*time.Millisecond)

	opened, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Contains(t, string(opened), `name="PaReq"`)
	assert.Contains(t, string(opened), "f.submit()")
}

func TestNewSystemOpener_DefaultCleanupDelay(t *testing.T) {
	t.Parallel()

	opener := NewSystemOpener(zap.NewNop())
	assert.Equal(t, defaultCleanupDelay, opener.cleanupDelay)
	assert.NotEmpty(t, opener.command)
}
