package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// HeadlessOpener submits challenge forms with an HTTP client instead of a
// real browser.
type HeadlessOpener struct {
	client *http.Client
	logger *zap.Logger
}

func NewHeadlessOpener(client *http.Client, logger *zap.Logger) *HeadlessOpener {
	if client == nil {
		client = http.DefaultClient
	}
	return &HeadlessOpener{client: client, logger: logger}
}

func (o *HeadlessOpener) Open(ctx context.Context) (Window, error) {
	return &headlessWindow{opener: o}, nil
}

type headlessWindow struct {
	documentWindow
	opener *HeadlessOpener
}

func (w *headlessWindow) Submit(ctx context.Context, form *Form) error {
	target, err := url.Parse(form.Action)
	if err != nil || !target.IsAbs() {
		return fmt.Errorf("%w: form action %q is not an absolute URL", ErrFormNotInWindow, form.Action)
	}

	var req *http.Request
	if form.Method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(form.Values().Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		target.RawQuery = form.Values().Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("error creating form request: %w", err)
	}

	resp, err := w.opener.client.Do(req)
	if err != nil {
		return fmt.Errorf("error submitting form: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	w.opener.logger.Info("Challenge form submitted headlessly",
		zap.String("action", target.Host+target.Path),
		zap.Int("status", resp.StatusCode))
	return nil
}
