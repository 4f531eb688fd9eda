// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/recipeverse/web/internal/domain/generation"
	"github.com/recipeverse/web/internal/ports/outbound"
)

// CookSession defines the use cases of one recipe generation session.
// Every selection mutation fails with a conflict while a submission is in flight.
type CookSession interface {
	// Selection
	ToggleIngredient(item string) (bool, error)
	AddCustomIngredient(text string) (bool, error)
	ToggleDietaryFilter(name string) (bool, error)
	SetSpiceLevel(n int) (int, error)
	SetPortions(n int) (int, error)
	SetCuisine(name string) error
	Reset() error

	// Backend interactions
	Submit(ctx context.Context, cred outbound.Credential) (generation.GenerationResult, error)
	LoadCredits(ctx context.Context, cred outbound.Credential) error
	Subscribe(ctx context.Context, cred outbound.Credential, plan string) (*outbound.CheckoutSession, error)

	// Queries
	State() CookState
}

// CookSessionFactory creates sessions for new visitors
type CookSessionFactory interface {
	NewSession() CookSession
}

// CookState is a consistent snapshot of a session
type CookState struct {
	Selection          generation.SelectionSnapshot `json:"selection"`
	Loading            bool                         `json:"loading"`
	Credits            generation.CreditBalance     `json:"credits"`
	SubscriptionStatus string                       `json:"subscription_status,omitempty"`
	DisplayName        string                       `json:"display_name,omitempty"`
	UpgradeSuggested   bool                         `json:"upgrade_suggested"`
	Result             *generation.GenerationResult `json:"result,omitempty"`
	Error              string                       `json:"error,omitempty"`
}
