package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"payment-form/browser"
	"payment-form/models"
	"payment-form/services/payment"
	"payment-form/types"
	"payment-form/utils"
)

// User facing submit failures. Details go to the log only.
const (
	MessagePaymentFailed     = "Payment failed. Please try again."
	MessageChallengeFailed   = "3D Secure processing failed."
	MessageChallengeNoForm   = "3D Secure form not found in response."
	MessagePopupBlocked      = "Unable to open 3D Secure window. Please allow pop-ups and try again."
	MessageChallengeNoWindow = "3D Secure form not found in new window."
)

var (
	ErrInvalidForm      = errors.New("form has validation errors")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrUnknownField     = errors.New("unknown form field")
)

// SubmitError is returned when a submission reaches the backend and fails.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Challenger completes a 3-D Secure challenge out of band.
type Challenger interface {
	Handle(ctx context.Context, challenge types.ThreeDSChallenge) error
}

// StateObserver is told about every state transition, in order.
type StateObserver func(from, to models.SubmissionState)

// Controller owns one payment form from creation to Close.
type Controller struct {
	mu          sync.Mutex
	fields      models.FormFields
	errors      models.ValidationErrors
	state       models.SubmissionState
	submitting  bool
	submitError string
	browserCtx  types.BrowserContext
	observers   []StateObserver

	unsubscribe func()
	authorizer  payment.Authorizer
	challenger  Challenger
	logger      *zap.Logger
}

// NewController snapshots env and follows its resize events until Close.
func NewController(env *browser.Environment, authorizer payment.Authorizer, challenger Challenger, logger *zap.Logger) *Controller {
	c := &Controller{
		fields:     models.NewFormFields(),
		errors:     models.ValidationErrors{},
		state:      models.SubmissionIdle,
		authorizer: authorizer,
		challenger: challenger,
		logger:     logger,
	}
	if env != nil {
		c.browserCtx = env.Snapshot()
		c.unsubscribe = env.Subscribe(c.updateBrowserContext)
	}
	return c
}

// Close stops following environment updates.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) updateBrowserContext(snapshot types.BrowserContext) {
	c.mu.Lock()
	c.browserCtx = snapshot
	c.mu.Unlock()
}

func (c *Controller) OnStateChange(fn StateObserver) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// SetField formats raw and stores it. Validation errors are left alone.
func (c *Controller) SetField(name, raw string) (string, error) {
	value := Format(name, raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case models.FieldAmount:
		c.fields.Amount = value
	case models.FieldCurrency:
		c.fields.Currency = value
	case models.FieldCardNumber:
		c.fields.CardNumber = value
	case models.FieldExpiryDate:
		c.fields.ExpiryDate = value
	case models.FieldSecurityCode:
		c.fields.SecurityCode = value
	case models.FieldCardHolderName:
		c.fields.CardHolderName = value
	case models.FieldRememberCard:
		c.fields.RememberCard = parseCheckbox(value)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return value, nil
}

func parseCheckbox(value string) bool {
	if value == "on" {
		return true
	}
	b, _ := strconv.ParseBool(value)
	return b
}

func (c *Controller) Fields() models.FormFields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Validate recomputes the error set and reports whether it is empty.
func (c *Controller) Validate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = Validate(c.fields)
	return len(c.errors) == 0
}

func (c *Controller) Errors() models.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(models.ValidationErrors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

func (c *Controller) State() models.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submitting reports whether a request is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// SubmitError returns the message of the last failed submission.
func (c *Controller) SubmitError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitError
}

func (c *Controller) BrowserContext() types.BrowserContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.browserCtx
}

// Submit validates the form and, when valid, authorizes the payment and
// runs the 3-D Secure step if the backend asks for it.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting || !c.state.CanSubmit() {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	c.errors = Validate(c.fields)
	if len(c.errors) > 0 {
		c.mu.Unlock()
		return ErrInvalidForm
	}
	req, err := c.buildRequest()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.submitError = ""
	c.submitting = true
	notify := c.transitionLocked(models.SubmissionSubmitting)
	c.mu.Unlock()
	notify()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	resp, err := c.authorizer.Authorize(ctx, req)
	if err != nil {
		c.logger.Error("Payment authorization failed", zap.Error(err))
		return c.fail(MessagePaymentFailed, err)
	}

	if !resp.ChallengeRequired() {
		c.logger.Info("Payment authorized",
			zap.String("status", resp.Status),
			zap.String("transaction_id", resp.TransactionID))
		c.transition(models.SubmissionSucceeded)
		return nil
	}

	c.transition(models.SubmissionChallengeRequired)
	c.logger.Info("3D Secure challenge required")

	if err := c.challenger.Handle(ctx, resp.Challenge()); err != nil {
		c.logger.Error("3D Secure challenge failed", zap.Error(err))
		return c.fail(challengeMessage(err), err)
	}

	c.logger.Info("3D Secure challenge handed off")
	return nil
}

func challengeMessage(err error) string {
	switch {
	case errors.Is(err, payment.ErrChallengeFormMissing):
		return MessageChallengeNoForm
	case errors.Is(err, browser.ErrPopupBlocked):
		return MessagePopupBlocked
	case errors.Is(err, browser.ErrFormNotInWindow):
		return MessageChallengeNoWindow
	default:
		return MessageChallengeFailed
	}
}

// buildRequest must be called with c.mu held on a validated form.
func (c *Controller) buildRequest() (*models.PaymentRequest, error) {
	amount, err := utils.ToMinorUnits(c.fields.Amount)
	if err != nil {
		return nil, fmt.Errorf("error converting amount: %w", err)
	}
	return &models.PaymentRequest{
		Amount:         amount,
		Currency:       c.fields.Currency,
		CardHolderName: c.fields.CardHolderName,
		CardNumber:     Digits(c.fields.CardNumber),
		ExpiryDate:     c.fields.ExpiryDate,
		SecurityCode:   c.fields.SecurityCode,
		RememberCard:   c.fields.RememberCard,
		BrowserContext: c.browserCtx,
	}, nil
}

func (c *Controller) fail(message string, err error) error {
	c.mu.Lock()
	c.submitError = message
	notify := c.transitionLocked(models.SubmissionFailed)
	c.mu.Unlock()
	notify()
	return &SubmitError{Message: message, Err: err}
}

func (c *Controller) transition(to models.SubmissionState) {
	c.mu.Lock()
	notify := c.transitionLocked(to)
	c.mu.Unlock()
	notify()
}

// transitionLocked sets the state and returns a func that notifies
// observers; call it after releasing c.mu.
func (c *Controller) transitionLocked(to models.SubmissionState) func() {
	from := c.state
	c.state = to
	observers := append([]StateObserver(nil), c.observers...)
	return func() {
		for _, fn := range observers {
			fn(from, to)
		}
	}
}
