// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/recipeverse/web/internal/domain/generation"
	"github.com/recipeverse/web/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockGenerationBackend provides a mock implementation of GenerationBackend
type MockGenerationBackend struct {
	mock.Mock
}

// NewMockGenerationBackend creates a new mock backend
func NewMockGenerationBackend() *MockGenerationBackend {
	return &MockGenerationBackend{}
}

// Generate records the call and returns the configured reply
func (m *MockGenerationBackend) Generate(ctx context.Context, cred outbound.Credential, req generation.GenerationRequest) (*outbound.GenerationReply, error) {
	args := m.Called(ctx, cred, req)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.GenerationReply), nil
}

// FetchAccount records the call and returns the configured account
func (m *MockGenerationBackend) FetchAccount(ctx context.Context, cred outbound.Credential) (*outbound.AccountInfo, error) {
	args := m.Called(ctx, cred)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.AccountInfo), nil
}

// CreateCheckoutSession records the call and returns the configured session
func (m *MockGenerationBackend) CreateCheckoutSession(ctx context.Context, cred outbound.Credential, plan string) (*outbound.CheckoutSession, error) {
	args := m.Called(ctx, cred, plan)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.CheckoutSession), nil
}

// Ping records the call
func (m *MockGenerationBackend) Ping(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// RecordingMetrics captures metric observations
type RecordingMetrics struct {
	mu                 sync.Mutex
	Outcomes           []generation.ResultKind
	ValidationFailures int
	Exhaustions        int
}

// ObserveGeneration records an outcome
func (r *RecordingMetrics) ObserveGeneration(kind generation.ResultKind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outcomes = append(r.Outcomes, kind)
}

// ObserveValidationFailure counts a local validation failure
func (r *RecordingMetrics) ObserveValidationFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ValidationFailures++
}

// ObserveCreditsExhausted counts a balance reaching zero
func (r *RecordingMetrics) ObserveCreditsExhausted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Exhaustions++
}

// Reply builds a generation reply from a status and body
func Reply(status int, body generation.ReplyBody) *outbound.GenerationReply {
	return &outbound.GenerationReply{StatusCode: status, Body: body}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n
func IntPtr(n int) *int { return &n }
