package models

import "payment-form/types"

// ChallengeStatus is the authorization status that asks for a 3-D Secure challenge.
const ChallengeStatus = "3DS_required"

// PaymentRequest is the body posted to the authorization endpoint. The
// browser snapshot is flattened into the same JSON object.
type PaymentRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	CardHolderName string `json:"card_holder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	SecurityCode   string `json:"security_code"`
	RememberCard   bool   `json:"remember_card"`
	types.BrowserContext
}

// LastFour returns the trailing card digits, safe for logs.
func (p *PaymentRequest) LastFour() string {
	if len(p.CardNumber) < 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}

// AuthorizationResponse is the decoded body of a successful authorization call.
type AuthorizationResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaReq         string `json:"PaReq,omitempty"`
	MD            string `json:"MD,omitempty"`
}

func (r *AuthorizationResponse) ChallengeRequired() bool {
	return r.Status == ChallengeStatus
}

// Challenge returns the 3-D Secure parameters carried by the response.
func (r *AuthorizationResponse) Challenge() types.ThreeDSChallenge {
	return types.ThreeDSChallenge{PaReq: r.PaReq, MD: r.MD}
}
