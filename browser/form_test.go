package browser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-form/browser"
)

func TestExtractForm(t *testing.T) {
	t.Parallel()

	doc := []byte(`<html><body>
<input name="outside" value="ignored">
<FORM ACTION="https://acs.test/pay" method="post">
  <div><input type="hidden" name="PaReq" value="abc=="></div>
  <input name="MD" value="state">
  <input type="submit" value="Go">
</FORM>
<form action="https://second.test"><input name="other"></form>
</body></html>`)

	form, err := browser.ExtractForm(doc)

	require.NoError(t, err)
	assert.Equal(t, "https://acs.test/pay", form.Action)
	assert.Equal(t, "POST", form.Method)
	assert.Equal(t, []browser.FormField{
		{Name: "PaReq", Value: "abc=="},
		{Name: "MD", Value: "state"},
	}, form.Fields)
	assert.Equal(t, "abc==", form.Values().Get("PaReq"))
	assert.Equal(t, "", form.Get("missing"))
}

func TestExtractForm_DefaultMethodAndMissingForm(t *testing.T) {
	t.Parallel()

	form, err := browser.ExtractForm([]byte(`<form action="/x"><input name="a" value="1"></form>`))
	require.NoError(t, err)
	assert.Equal(t, "GET", form.Method)

	_, err = browser.ExtractForm([]byte(`<html><body>no form here</body></html>`))
	assert.ErrorIs(t, err, browser.ErrNoForm)

	_, err = browser.ExtractForm(nil)
	assert.ErrorIs(t, err, browser.ErrNoForm)
}

func TestWithAutoSubmit(t *testing.T) {
	t.Parallel()

	out := string(browser.WithAutoSubmit([]byte(`<html><body><form></form></BODY></html>`)))
	assert.True(t, strings.HasSuffix(out, "</BODY></html>"))
	assert.Contains(t, out, "f.submit()")
	assert.Less(t, strings.Index(out, "<script>"), strings.Index(out, "</BODY>"))

	bare := string(browser.WithAutoSubmit([]byte(`<form></form>`)))
	assert.True(t, strings.HasPrefix(bare, `<form></form><script>`))
}
