package payment

import (
	"context"

	"payment-form/models"
	"payment-form/types"
)

// Authorizer sends the initial authorization request.
type Authorizer interface {
	Authorize(ctx context.Context, req *models.PaymentRequest) (*models.AuthorizationResponse, error)
}

// ChallengeProxy exchanges challenge tokens for the issuer's HTML form.
type ChallengeProxy interface {
	ProxyChallenge(ctx context.Context, req *types.ThreeDSProxyRequest) ([]byte, error)
}
