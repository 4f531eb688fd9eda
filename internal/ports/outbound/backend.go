// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/recipeverse/web/internal/domain/generation"
)

// Credential is whatever the external identity provider already issued.
// A bearer token takes precedence; otherwise the backend session cookie is
// forwarded. The two modes are mutually exclusive per request.
type Credential struct {
	BearerToken   string
	SessionCookie string
}

// UsesBearer reports whether the request should carry an Authorization header.
func (c Credential) UsesBearer() bool {
	return c.BearerToken != ""
}

// IsZero reports whether no credential is available at all.
func (c Credential) IsZero() bool {
	return c.BearerToken == "" && c.SessionCookie == ""
}

// GenerationReply is the raw outcome of one generation round trip.
type GenerationReply struct {
	StatusCode int
	Body       generation.ReplyBody
}

// AccountInfo is the subset of the user-info endpoint the composer consumes.
type AccountInfo struct {
	Name               string
	Credits            int
	SubscriptionStatus string
}

// CheckoutSession is the redirect target returned by the checkout collaborator.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// GenerationBackend is the external RecipeVerse backend
type GenerationBackend interface {
	// Generate issues exactly one generation request. A non-nil error means
	// the round trip itself failed (transport, timeout, undecodable success body).
	Generate(ctx context.Context, cred Credential, req generation.GenerationRequest) (*GenerationReply, error)

	// FetchAccount reads the credit balance and subscription status.
	FetchAccount(ctx context.Context, cred Credential) (*AccountInfo, error)

	// CreateCheckoutSession starts a subscription upgrade for plan.
	CreateCheckoutSession(ctx context.Context, cred Credential, plan string) (*CheckoutSession, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) bool
}

// GenerationMetrics records composer outcomes
type GenerationMetrics interface {
	ObserveGeneration(kind generation.ResultKind, elapsed time.Duration)
	ObserveValidationFailure()
	ObserveCreditsExhausted()
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveGeneration(generation.ResultKind, time.Duration) {}
func (NopMetrics) ObserveValidationFailure()                              {}
func (NopMetrics) ObserveCreditsExhausted()                               {}
