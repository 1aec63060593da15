package models

// Field names used by the form, the validator and the JSON/HTML surfaces.
const (
	FieldAmount         = "amount"
	FieldCurrency       = "currency"
	FieldCardNumber     = "cardNumber"
	FieldExpiryDate     = "expiryDate"
	FieldSecurityCode   = "securityCode"
	FieldCardHolderName = "cardHolderName"
	FieldRememberCard   = "rememberCard"
)

// Currencies lists the currencies offered by the form, in display order.
var Currencies = []string{"USD", "EUR", "GBP", "JPY"}

const DefaultCurrency = "USD"

// FormFields holds the display values of the payment form.
type FormFields struct {
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	SecurityCode   string `json:"securityCode"`
	CardHolderName string `json:"cardHolderName"`
	RememberCard   bool   `json:"rememberCard"`
}

// NewFormFields returns an empty form with the default currency selected.
func NewFormFields() FormFields {
	return FormFields{Currency: DefaultCurrency}
}

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// IsSupportedCurrency reports whether code is one of Currencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}
