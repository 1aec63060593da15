package form

import (
	"regexp"
	"strings"

	"payment-form/models"
	"payment-form/utils"
)

const (
	MessageAmount         = "Valid amount required"
	MessageCardNumber     = "Valid 16-digit card number required"
	MessageExpiryDate     = "Valid expiry date (MM/YY) required"
	MessageSecurityCode   = "Valid CVV/CVC required"
	MessageCardHolderName = "Cardholder name required"
	MessageCurrency       = "Supported currency required"
)

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// Validate checks every field and returns the complete error set. An empty
// result means the form can be submitted.
func Validate(f models.FormFields) models.ValidationErrors {
	errs := models.ValidationErrors{}

	if _, err := utils.ToMinorUnits(f.Amount); err != nil {
		errs[models.FieldAmount] = MessageAmount
	}

	if !models.IsSupportedCurrency(f.Currency) {
		errs[models.FieldCurrency] = MessageCurrency
	}

	card := strings.Join(strings.Fields(f.CardNumber), "")
	if len(card) != 16 || Digits(card) != card {
		errs[models.FieldCardNumber] = MessageCardNumber
	}

	if !expiryPattern.MatchString(f.ExpiryDate) {
		errs[models.FieldExpiryDate] = MessageExpiryDate
	}

	if len(f.SecurityCode) < 3 {
		errs[models.FieldSecurityCode] = MessageSecurityCode
	}

	if strings.TrimSpace(f.CardHolderName) == "" {
		errs[models.FieldCardHolderName] = MessageCardHolderName
	}

	return errs
}
