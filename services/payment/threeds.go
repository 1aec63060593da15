package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"payment-form/browser"
	"payment-form/types"
)

var (
	ErrChallengeProxy       = errors.New("3D Secure proxy request failed")
	ErrChallengeFormMissing = errors.New("3D Secure form not found in proxy response")
	ErrChallengeIncomplete  = errors.New("3D Secure challenge parameters missing")
)

// SampleChallenge stands in for missing challenge tokens when sample
// challenges are enabled. Test backends only.
var SampleChallenge = types.ThreeDSChallenge{
	PaReq: "sample-pareq-0000000000",
	MD:    "sample-md-0000000000",
}

type ChallengeConfig struct {
	ReturnURL    string
	ChallengeURL string
	AllowSample  bool
}

// ChallengeHandler runs the 3-D Secure redirect step.
type ChallengeHandler struct {
	proxy  ChallengeProxy
	opener browser.Opener
	config ChallengeConfig
	logger *zap.Logger
}

func NewChallengeHandler(proxy ChallengeProxy, opener browser.Opener, cfg ChallengeConfig, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		proxy:  proxy,
		opener: opener,
		config: cfg,
		logger: logger,
	}
}

// Handle fetches the issuer form and hands it to a new browsing context,
// which submits it. The challenge result is never reported back here.
func (h *ChallengeHandler) Handle(ctx context.Context, challenge types.ThreeDSChallenge) error {
	if !challenge.IsComplete() {
		if !h.config.AllowSample {
			return ErrChallengeIncomplete
		}
		h.logger.Warn("Challenge parameters missing, using sample values")
		if challenge.PaReq == "" {
			challenge.PaReq = SampleChallenge.PaReq
		}
		if challenge.MD == "" {
			challenge.MD = SampleChallenge.MD
		}
	}

	doc, err := h.proxy.ProxyChallenge(ctx, &types.ThreeDSProxyRequest{
		PaReq:   challenge.PaReq,
		MD:      challenge.MD,
		TermURL: h.config.ReturnURL,
		ACSURL:  h.config.ChallengeURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeProxy, err)
	}

	form, err := browser.ExtractForm(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeFormMissing, err)
	}
	h.logger.Info("3D Secure form received",
		zap.String("method", form.Method),
		zap.Int("fields", len(form.Fields)),
		zap.Bool("has_pareq", form.Get("PaReq") != ""))

	return browser.AutoSubmit(ctx, h.opener, doc)
}
