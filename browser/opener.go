package browser

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPopupBlocked    = errors.New("new browsing context could not be opened")
	ErrFormNotInWindow = errors.New("no form found in new browsing context")
)

// Opener creates a new top-level browsing context.
type Opener interface {
	Open(ctx context.Context) (Window, error)
}

// Window is a browsing context that a raw HTML document is written into.
type Window interface {
	Write(doc []byte) error
	// Form locates the form in the loaded document.
	Form() (*Form, error)
	Submit(ctx context.Context, form *Form) error
}

// AutoSubmit opens a new context, loads doc into it and submits its form.
// What happens after submission is not observed.
func AutoSubmit(ctx context.Context, opener Opener, doc []byte) error {
	win, err := opener.Open(ctx)
	if err != nil {
		if errors.Is(err, ErrPopupBlocked) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}
	if win == nil {
		return ErrPopupBlocked
	}

	if err := win.Write(doc); err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}

	form, err := win.Form()
	if err != nil {
		if errors.Is(err, ErrNoForm) {
			return ErrFormNotInWindow
		}
		return fmt.Errorf("%w: %v", ErrFormNotInWindow, err)
	}

	return win.Submit(ctx, form)
}

// documentWindow keeps the written document and finds its form.
type documentWindow struct {
	doc []byte
}

func (w *documentWindow) Write(doc []byte) error {
	w.doc = append(w.doc[:0], doc...)
	return nil
}

func (w *documentWindow) Form() (*Form, error) {
	if len(w.doc) == 0 {
		return nil, ErrNoForm
	}
	return ExtractForm(w.doc)
}
