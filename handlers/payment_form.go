package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"payment-form/browser"
	"payment-form/form"
	"payment-form/models"
	"payment-form/services/payment"
	"payment-form/types"
	"payment-form/utils"
)

const (
	sessionName = "payment-form"
	sessionKey  = "form_id"

	messageInProgress = "A payment is already being processed."

	challengeCSP = "default-src 'self' https:; script-src 'self' 'unsafe-inline' https:; style-src 'self' 'unsafe-inline' https:; img-src 'self' https: data:"
)

// formSession is one mounted form: created on the first request of a
// visitor, discarded once the payment leaves the form or is reset.
type formSession struct {
	controller *form.Controller
	env        *browser.Environment
	page       *browser.PageOpener
	lastSeen   time.Time
}

type PaymentFormHandler struct {
	store      *sessions.CookieStore
	authorizer payment.Authorizer
	proxy      payment.ChallengeProxy
	challenge  payment.ChallengeConfig
	idleTTL    time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	forms map[string]*formSession
}

type SessionOptions struct {
	Secret string
	MaxAge int
	Secure bool
}

func NewPaymentFormHandler(authorizer payment.Authorizer, proxy payment.ChallengeProxy, challenge payment.ChallengeConfig, opts SessionOptions, logger *zap.Logger) (*PaymentFormHandler, error) {
	if authorizer == nil {
		return nil, errors.New("payment authorizer is required")
	}
	if proxy == nil {
		return nil, errors.New("3DS proxy is required")
	}
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}

	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &PaymentFormHandler{
		store:      store,
		authorizer: authorizer,
		proxy:      proxy,
		challenge:  challenge,
		idleTTL:    time.Duration(opts.MaxAge) * time.Second,
		logger:     logger,
		forms:      make(map[string]*formSession),
	}, nil
}

func (h *PaymentFormHandler) Register(router *mux.Router) {
	router.HandleFunc("/", h.ShowForm).Methods("GET")
	router.HandleFunc("/pay", h.Submit).Methods("POST")
	router.HandleFunc("/reset", h.Reset).Methods("POST")
	router.HandleFunc("/payment/complete", h.Complete).Methods("GET", "POST")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/format", h.Format).Methods("POST", "OPTIONS")
	api.HandleFunc("/viewport", h.Viewport).Methods("POST", "OPTIONS")
}

func (h *PaymentFormHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	fs, err := h.mount(w, r)
	if err != nil {
		h.logger.Error("Error mounting form", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.renderForm(w, http.StatusOK, fs.controller, "")
}

// Format applies the field formatter to a keystroke and stores the result.
func (h *PaymentFormHandler) Format(w http.ResponseWriter, r *http.Request) {
	fs, err := h.mount(w, r)
	if err != nil {
		h.logger.Error("Error mounting form", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req models.FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := fs.controller.SetField(req.Field, req.Value)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SendJSON(w, http.StatusOK, models.FormatResponse{Field: req.Field, Value: value})
}

func (h *PaymentFormHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	fs, err := h.mount(w, r)
	if err != nil {
		h.logger.Error("Error mounting form", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req models.ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Width <= 0 || req.Height <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid viewport")
		return
	}

	fs.env.Resize(req.Width, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

var postedFields = []string{
	models.FieldAmount,
	models.FieldCurrency,
	models.FieldCardNumber,
	models.FieldExpiryDate,
	models.FieldSecurityCode,
	models.FieldCardHolderName,
	models.FieldRememberCard,
}

func (h *PaymentFormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := h.logger.With(zap.String("request_id", requestID))

	fs, err := h.mount(w, r)
	if err != nil {
		logger.Error("Error mounting form", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.Warn("Invalid form body", zap.Error(err))
		h.renderForm(w, http.StatusBadRequest, fs.controller, "")
		return
	}

	for _, name := range postedFields {
		if _, err := fs.controller.SetField(name, r.PostForm.Get(name)); err != nil {
			logger.Error("Error setting field", zap.String("field", name), zap.Error(err))
		}
	}
	applyDisplay(fs.env, r.PostForm)

	logger.Info("Processing payment form")
	err = fs.controller.Submit(r.Context())

	switch {
	case err == nil && fs.controller.State() == models.SubmissionChallengeRequired:
		page, ok := fs.page.Take()
		h.unmount(r)
		if !ok {
			logger.Error("Challenge handed off without a page")
			h.renderResult(w, http.StatusInternalServerError, "Payment failed", form.MessageChallengeFailed)
			return
		}
		logger.Info("Serving 3D Secure challenge page")
		// the issuer's page loads its own assets
		w.Header().Set("Content-Security-Policy", challengeCSP)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)

	case err == nil:
		h.unmount(r)
		h.renderResult(w, http.StatusOK, "Payment successful", "Your payment has been processed successfully.")

	case errors.Is(err, form.ErrInvalidForm):
		h.renderForm(w, http.StatusUnprocessableEntity, fs.controller, "")

	case errors.Is(err, form.ErrSubmitInProgress):
		h.renderForm(w, http.StatusConflict, fs.controller, messageInProgress)

	default:
		var submitErr *form.SubmitError
		if errors.As(err, &submitErr) {
			logger.Warn("Payment submission failed", zap.Error(err))
			h.renderForm(w, http.StatusBadGateway, fs.controller, "")
			return
		}
		logger.Error("Unexpected submission error", zap.Error(err))
		h.renderForm(w, http.StatusInternalServerError, fs.controller, form.MessagePaymentFailed)
	}
}

// Complete is the 3-D Secure return address. The issuer posts the outcome
// here; confirming it is the payment backend's job.
func (h *PaymentFormHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Invalid 3D Secure return body", zap.Error(err))
		h.renderResult(w, http.StatusBadRequest, "Verification failed", form.MessageChallengeFailed)
		return
	}
	h.logger.Info("3D Secure return received",
		zap.Bool("has_pares", r.Form.Get("PaRes") != ""),
		zap.Bool("has_md", r.Form.Get("MD") != ""))
	h.renderResult(w, http.StatusOK, "Verification complete", "Thank you. Your payment will be confirmed shortly.")
}

func (h *PaymentFormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.unmount(r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Mounted reports how many forms are currently alive.
func (h *PaymentFormHandler) Mounted() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.forms)
}

// Close discards every mounted form.
func (h *PaymentFormHandler) Close() {
	h.mu.Lock()
	forms := h.forms
	h.forms = make(map[string]*formSession)
	h.mu.Unlock()

	for _, fs := range forms {
		fs.controller.Close()
	}
}

func (h *PaymentFormHandler) mount(w http.ResponseWriter, r *http.Request) (*formSession, error) {
	session, err := h.store.Get(r, sessionName)
	if err != nil {
		// tampered or stale cookie, start over with a fresh session
		h.logger.Warn("Discarding unreadable session", zap.Error(err))
	}

	id, _ := session.Values[sessionKey].(string)
	now := time.Now()

	h.mu.Lock()
	h.sweepLocked(now)
	fs, ok := h.forms[id]
	if ok {
		fs.lastSeen = now
		h.mu.Unlock()
		return fs, nil
	}

	id = uuid.New().String()
	fs = h.newFormSession(r, now)
	h.forms[id] = fs
	h.mu.Unlock()

	session.Values[sessionKey] = id
	if err := session.Save(r, w); err != nil {
		h.discard(id)
		return nil, err
	}
	h.logger.Debug("Form mounted", zap.String("form_id", id))
	return fs, nil
}

func (h *PaymentFormHandler) newFormSession(r *http.Request, now time.Time) *formSession {
	env := browser.NewEnvironment(requestContext(r))
	page := browser.NewPageOpener()
	challenger := payment.NewChallengeHandler(h.proxy, page, h.challenge, h.logger)
	return &formSession{
		controller: form.NewController(env, h.authorizer, challenger, h.logger),
		env:        env,
		page:       page,
		lastSeen:   now,
	}
}

func (h *PaymentFormHandler) unmount(r *http.Request) {
	session, err := h.store.Get(r, sessionName)
	if err != nil {
		return
	}
	if id, ok := session.Values[sessionKey].(string); ok {
		h.discard(id)
	}
}

func (h *PaymentFormHandler) discard(id string) {
	h.mu.Lock()
	fs, ok := h.forms[id]
	delete(h.forms, id)
	h.mu.Unlock()

	if ok {
		fs.controller.Close()
	}
}

// sweepLocked drops forms idle for longer than the session lifetime. A form
// with a request in flight is kept.
func (h *PaymentFormHandler) sweepLocked(now time.Time) {
	if h.idleTTL <= 0 {
		return
	}
	for id, fs := range h.forms {
		if now.Sub(fs.lastSeen) > h.idleTTL && !fs.controller.Submitting() {
			fs.controller.Close()
			delete(h.forms, id)
		}
	}
}

func (h *PaymentFormHandler) renderForm(w http.ResponseWriter, status int, c *form.Controller, message string) {
	if message == "" {
		message = c.SubmitError()
	}
	page := formPage{
		Fields:      c.Fields(),
		Errors:      c.Errors(),
		Currencies:  models.Currencies,
		SubmitError: message,
		Submitting:  c.Submitting(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, page); err != nil {
		h.logger.Error("Error rendering form", zap.Error(err))
	}
}

func (h *PaymentFormHandler) renderResult(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := resultTemplate.Execute(w, resultPage{Title: title, Message: message}); err != nil {
		h.logger.Error("Error rendering result", zap.Error(err))
	}
}

// requestContext seeds the browser snapshot from request headers; screen
// metrics arrive later from the page itself.
func requestContext(r *http.Request) types.BrowserContext {
	return types.BrowserContext{
		UserAgent:  r.UserAgent(),
		Language:   primaryLanguage(r.Header.Get("Accept-Language")),
		ColorDepth: 24,
		UTCOffset:  utils.OffsetFromMinutes(0),
	}
}

func primaryLanguage(header string) string {
	lang := header
	if i := strings.IndexAny(lang, ",;"); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.TrimSpace(lang)
	if lang == "" || lang == "*" {
		return "en-US"
	}
	return lang
}

// applyDisplay copies the colour depth and timezone reported by the page.
func applyDisplay(env *browser.Environment, values map[string][]string) {
	get := func(key string) (int, bool) {
		v := values[key]
		if len(v) == 0 {
			return 0, false
		}
		n, err := strconv.Atoi(v[0])
		return n, err == nil
	}

	depth, hasDepth := get("colorDepth")
	offset, hasOffset := get("timezoneOffset")
	if !hasDepth && !hasOffset {
		return
	}
	env.Update(func(c *types.BrowserContext) {
		if hasDepth && depth > 0 {
			c.ColorDepth = depth
		}
		if hasOffset {
			c.TimezoneOffset = offset
			c.UTCOffset = utils.OffsetFromMinutes(offset)
		}
	})
}
