package services

import "context"

// PaymentGateway is what booking and payment services need from the Chapa
// client; tests swap in a fake.
type PaymentGateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResponse, error)
}
