package browser

import (
	"context"
	"sync"
)

// PageOpener hands the document back to the caller, whose own browser
// becomes the new browsing context when the page is served to it.
type PageOpener struct {
	mu   sync.Mutex
	page []byte
}

func NewPageOpener() *PageOpener {
	return &PageOpener{}
}

func (o *PageOpener) Open(ctx context.Context) (Window, error) {
	return &pageWindow{opener: o}, nil
}

// Take returns the pending auto-submitting page and clears it.
func (o *PageOpener) Take() ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	page := o.page
	o.page = nil
	return page, page != nil
}

type pageWindow struct {
	documentWindow
	opener *PageOpener
}

func (w *pageWindow) Submit(ctx context.Context, form *Form) error {
	w.opener.mu.Lock()
	w.opener.page = WithAutoSubmit(w.doc)
	w.opener.mu.Unlock()
	return nil
}
