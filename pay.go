package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"payment-form/browser"
	"payment-form/config"
	"payment-form/form"
	"payment-form/models"
	"payment-form/services/payment"
)

type payOptions struct {
	fields   map[string]*string
	remember bool
	headless bool
	width    int
	height   int
}

func payCmd() *cobra.Command {
	opts := &payOptions{fields: map[string]*string{}}

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Fill in and submit the payment form from the terminal",
		Long: `Submit one payment through the same form logic the web page uses.

When the backend asks for 3-D Secure, the challenge page opens in the
system browser, or is submitted over HTTP with --headless.

Examples:
  payment-form pay --amount 12.50 --currency EUR --card 4111111111111111 \
    --expiry 12/30 --cvc 123 --name "Jane Doe"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPay(cmd.Context(), cmd.OutOrStdout(), config.Load(), opts)
		},
	}

	flags := cmd.Flags()
	opts.fields[models.FieldAmount] = flags.String("amount", "", "amount in major units, e.g. 12.50")
	opts.fields[models.FieldCurrency] = flags.String("currency", models.DefaultCurrency, "currency code")
	opts.fields[models.FieldCardNumber] = flags.String("card", "", "card number")
	opts.fields[models.FieldExpiryDate] = flags.String("expiry", "", "expiry date as MM/YY")
	opts.fields[models.FieldSecurityCode] = flags.String("cvc", "", "card security code")
	opts.fields[models.FieldCardHolderName] = flags.String("name", "", "cardholder name")
	flags.BoolVar(&opts.remember, "remember", false, "ask the backend to remember the card")
	flags.BoolVar(&opts.headless, "headless", false, "submit the 3-D Secure form over HTTP instead of a browser")
	flags.IntVar(&opts.width, "width", 1280, "reported screen width")
	flags.IntVar(&opts.height, "height", 800, "reported screen height")

	return cmd
}

func runPay(ctx context.Context, out io.Writer, cfg *config.Config, opts *payOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	client := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.RequestTimeout, logger)

	var opener browser.Opener
	if opts.headless {
		opener = browser.NewHeadlessOpener(&http.Client{Timeout: cfg.Payment.RequestTimeout}, logger)
	} else {
		opener = browser.NewSystemOpener(logger)
	}

	env := browser.NewEnvironment(browser.LocalContext(time.Now(), opts.width, opts.height))
	challenger := payment.NewChallengeHandler(client, opener, cfg.ThreeDS, logger)
	controller := form.NewController(env, client, challenger, logger)
	defer controller.Close()

	controller.OnStateChange(func(from, to models.SubmissionState) {
		logger.Debug("Submission state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	})

	for name, value := range opts.fields {
		if _, err := controller.SetField(name, *value); err != nil {
			return err
		}
	}
	if opts.remember {
		if _, err := controller.SetField(models.FieldRememberCard, "true"); err != nil {
			return err
		}
	}

	err = controller.Submit(ctx)
	switch {
	case errors.Is(err, form.ErrInvalidForm):
		printErrors(out, controller.Errors())
		return err
	case err != nil:
		fmt.Fprintln(out, controller.SubmitError())
		return err
	}

	switch controller.State() {
	case models.SubmissionChallengeRequired:
		fmt.Fprintln(out, "3D Secure verification opened. Complete it to finish the payment.")
	default:
		fmt.Fprintln(out, "Payment successful.")
	}
	return nil
}

func printErrors(out io.Writer, errs models.ValidationErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, errs[name])
	}
}
