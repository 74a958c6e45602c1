package payment

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/georgemunganga/localmarket/internal/api"
)

// Gateway is the provider-agnostic interface a payment adapter implements.
type Gateway interface {
	// CreateIntent opens a provider intent for amount minor units.
	CreateIntent(ctx context.Context, amount int64, currency string) (*ProviderIntent, error)
	// Retrieve queries the provider for the current status of an intent.
	Retrieve(ctx context.Context, intentID string) (*ProviderIntent, error)
}

// SandboxGateway stands in for a card provider in development and tests.
// Intents report requires_payment_method until marked otherwise, or
// succeeded straight away when autoConfirm is set.
type SandboxGateway struct {
	autoConfirm bool

	mu       sync.Mutex
	statuses map[string]string
}

// NewSandboxGateway returns a SandboxGateway.
func NewSandboxGateway(autoConfirm bool) *SandboxGateway {
	return &SandboxGateway{autoConfirm: autoConfirm, statuses: map[string]string{}}
}

func (g *SandboxGateway) CreateIntent(_ context.Context, amount int64, currency string) (*ProviderIntent, error) {
	id := "pi_" + ulid.Make().String()
	return &ProviderIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:       api.PaymentRequiresPaymentMethod,
	}, nil
}

func (g *SandboxGateway) Retrieve(_ context.Context, intentID string) (*ProviderIntent, error) {
	g.mu.Lock()
	status, ok := g.statuses[intentID]
	g.mu.Unlock()

	if !ok {
		status = api.PaymentRequiresPaymentMethod
		if g.autoConfirm {
			status = api.PaymentSucceeded
		}
	}
	return &ProviderIntent{ID: intentID, Status: status}, nil
}

// SetStatus forces the status Retrieve reports for intentID.
func (g *SandboxGateway) SetStatus(intentID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[intentID] = status
}

// NormaliseStatus maps a provider status string onto the statuses exposed
// by the API. Unknown values are treated as still processing.
func NormaliseStatus(providerStatus string) string {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "succeeded", "successful", "paid":
		return api.PaymentSucceeded
	case "canceled", "cancelled":
		return api.PaymentCanceled
	case "requires_payment_method", "failed":
		return api.PaymentRequiresPaymentMethod
	case "requires_action", "requires_confirmation":
		return api.PaymentRequiresAction
	default:
		return api.PaymentProcessing
	}
}
