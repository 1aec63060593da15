package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payment-form/form"
	"payment-form/models"
)

func validFields() models.FormFields {
	return models.FormFields{
		Amount:         "12.50",
		Currency:       "USD",
		CardNumber:     "4111 1111 1111 1111",
		ExpiryDate:     "12/30",
		SecurityCode:   "123",
		CardHolderName: "Jane Doe",
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	assert.Empty(t, form.Validate(validFields()))
}

func TestValidate_Empty(t *testing.T) {
	t.Parallel()

	errs := form.Validate(models.NewFormFields())

	assert.Equal(t, models.ValidationErrors{
		models.FieldAmount:         form.MessageAmount,
		models.FieldCardNumber:     form.MessageCardNumber,
		models.FieldExpiryDate:     form.MessageExpiryDate,
		models.FieldSecurityCode:   form.MessageSecurityCode,
		models.FieldCardHolderName: form.MessageCardHolderName,
	}, errs)
}

func TestValidate_Amount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"", true},
		{"0", true},
		{"0.00", true},
		{".", true},
		{"1.2.3", true},
		{"0.001", true},
		{"99999999999999999999", true},
		{"12.50", false},
		{"0.01", false},
		{"1000", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			f := validFields()
			f.Amount = tt.amount
			assert.Equal(t, tt.wantErr, form.Validate(f).Has(models.FieldAmount))
		})
	}
}

func TestValidate_CardNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card    string
		wantErr bool
	}{
		{"4111 1111 1111 1111", false},
		{"4111111111111111", false},
		{"4111 1111 1111", true},
		{"4111 1111 1111 1111 1", true},
		{"4111 1111 1111 111x", true},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			f := validFields()
			f.CardNumber = tt.card
			assert.Equal(t, tt.wantErr, form.Validate(f).Has(models.FieldCardNumber))
		})
	}
}

func TestValidate_OtherFields(t *testing.T) {
	t.Parallel()

	f := validFields()
	f.ExpiryDate = "12/"
	f.SecurityCode = "12"
	f.CardHolderName = "   "
	f.Currency = "CHF"

	errs := form.Validate(f)

	assert.Len(t, errs, 4)
	assert.Equal(t, form.MessageExpiryDate, errs[models.FieldExpiryDate])
	assert.Equal(t, form.MessageSecurityCode, errs[models.FieldSecurityCode])
	assert.Equal(t, form.MessageCardHolderName, errs[models.FieldCardHolderName])
	assert.Equal(t, form.MessageCurrency, errs[models.FieldCurrency])

	f = validFields()
	f.SecurityCode = "1234"
	f.ExpiryDate = "01/99"
	assert.Empty(t, form.Validate(f))
}
