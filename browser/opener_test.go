package browser_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"payment-form/browser"
)

func TestAutoSubmit_Headless(t *testing.T) {
	t.Parallel()

	received := make(chan url.Values, 1)
	acs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(body))
		received <- values
		w.Write([]byte("challenge page"))
	}))
	defer acs.Close()

	doc := []byte(`<html><body><form method="post" action="` + acs.URL + `/challenge">` +
		`<input type="hidden" name="PaReq" value="x"><input type="hidden" name="MD" value="y"></form></body></html>`)

	opener := browser.NewHeadlessOpener(acs.Client(), zap.NewNop())
	require.NoError(t, browser.AutoSubmit(context.Background(), opener, doc))

	values := <-received
	assert.Equal(t, "x", values.Get("PaReq"))
	assert.Equal(t, "y", values.Get("MD"))
}

func TestAutoSubmit_HeadlessRelativeAction(t *testing.T) {
	t.Parallel()

	opener := browser.NewHeadlessOpener(nil, zap.NewNop())
	err := browser.AutoSubmit(context.Background(), opener, []byte(`<form action="/relative"></form>`))

	assert.ErrorIs(t, err, browser.ErrFormNotInWindow)
}

func TestAutoSubmit_NoFormInWindow(t *testing.T) {
	t.Parallel()

	err := browser.AutoSubmit(context.Background(), browser.NewPageOpener(), []byte(`<p>empty</p>`))

	assert.ErrorIs(t, err, browser.ErrFormNotInWindow)
}

func TestPageOpener(t *testing.T) {
	t.Parallel()

	opener := browser.NewPageOpener()
	_, ok := opener.Take()
	require.False(t, ok)

	doc := []byte(`<html><body><form action="https://acs.test"></form></body></html>`)
	require.NoError(t, browser.AutoSubmit(context.Background(), opener, doc))

	page, ok := opener.Take()
	require.True(t, ok)
	assert.Contains(t, string(page), `action="https://acs.test"`)
	assert.Contains(t, string(page), "f.submit()")

	_, ok = opener.Take()
	assert.False(t, ok)
}

func TestSystemOpener_MissingLauncher(t *testing.T) {
	t.Parallel()

	opener := browser.NewSystemOpener(zap.NewNop(), "payment-form-no-such-browser")
	err := browser.AutoSubmit(context.Background(), opener, []byte(`<form action="https://acs.test"></form>`))

	assert.ErrorIs(t, err, browser.ErrPopupBlocked)
}
