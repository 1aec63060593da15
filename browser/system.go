package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// SystemOpener hands the document to the desktop's default browser through
// a temporary file.
type SystemOpener struct {
	command []string
	logger  *zap.Logger

	// cleanupDelay is how long the page outlives the launcher process. The
	// launcher usually exits before the browser has read the file.
	cleanupDelay time.Duration
}

const defaultCleanupDelay = time.Minute

// NewSystemOpener uses command to launch the browser; the file URL is
// appended as the last argument. An empty command picks the platform default.
func NewSystemOpener(logger *zap.Logger, command ...string) *SystemOpener {
	if len(command) == 0 {
		command = defaultOpenCommand()
	}
	return &SystemOpener{command: command, logger: logger, cleanupDelay: defaultCleanupDelay}
}

func defaultOpenCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func (o *SystemOpener) Open(ctx context.Context) (Window, error) {
	path, err := exec.LookPath(o.command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}
	return &systemWindow{opener: o, launcher: path}, nil
}

type systemWindow struct {
	documentWindow
	opener   *SystemOpener
	launcher string
}

func (w *systemWindow) Submit(ctx context.Context, form *Form) error {
	f, err := os.CreateTemp("", "payment-3ds-*.html")
	if err != nil {
		return fmt.Errorf("error creating challenge page: %w", err)
	}
	if _, err := f.Write(WithAutoSubmit(w.doc)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("error writing challenge page: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("error writing challenge page: %w", err)
	}

	args := append(append([]string{}, w.opener.command[1:]...), "file://"+f.Name())
	cmd := exec.Command(w.launcher, args...)
	if err := cmd.Start(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}
	// the page carries live PaReq and MD tokens
	go w.removeAfterExit(cmd, f.Name())

	w.opener.logger.Info("Challenge page opened in system browser",
		zap.String("page", f.Name()),
		zap.Int("fields", len(form.Fields)))
	return nil
}

func (w *systemWindow) removeAfterExit(cmd *exec.Cmd, page string) {
	cmd.Wait()
	time.Sleep(w.opener.cleanupDelay)
	if err := os.Remove(page); err != nil && !os.IsNotExist(err) {
		w.opener.logger.Warn("Error removing challenge page", zap.String("page", page), zap.Error(err))
	}
}
