// Package cook provides the application layer for recipe generation sessions
// This implements the use cases defined in the inbound ports
package cook

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/recipeverse/web/internal/domain/generation"
	"github.com/recipeverse/web/internal/ports/inbound"
	"github.com/recipeverse/web/internal/ports/outbound"
	"github.com/recipeverse/web/pkg/errors"
	"go.uber.org/zap"
)

// Subscription plans accepted by the checkout collaborator.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	subscriptionPremium = "premium"
)

// Service creates cook sessions sharing one backend
type Service struct {
	backend outbound.GenerationBackend
	metrics outbound.GenerationMetrics
	logger  *zap.Logger
}

// NewService creates a new cook service
func NewService(
	backend outbound.GenerationBackend,
	metrics outbound.GenerationMetrics,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &Service{
		backend: backend,
		metrics: metrics,
		logger:  logger.Named("cook-service"),
	}
}

// NewSession starts a session with default selections and an unknown balance
func (s *Service) NewSession() inbound.CookSession {
	id := uuid.NewString()
	return &Session{
		id:        id,
		backend:   s.backend,
		metrics:   s.metrics,
		logger:    s.logger.With(zap.String("cook_session", id)),
		selection: generation.NewSelectionState(),
		balance:   generation.UnknownBalance(),
	}
}

// Session is one user's composer. Safe for concurrent use; at most one
// submission is in flight and selection changes are refused meanwhile.
type Session struct {
	id      string
	backend outbound.GenerationBackend
	metrics outbound.GenerationMetrics
	logger  *zap.Logger

	mu           sync.Mutex
	selection    *generation.SelectionState
	loading      bool
	balance      generation.CreditBalance
	subscription string
	displayName  string
	result       *generation.GenerationResult
	errMsg       string

	// recorded counts submission outcomes that reported a balance
	recorded uint64
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// mutate runs fn under the lock unless a submission is in flight.
func (s *Session) mutate(fn func(sel *generation.SelectionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return inFlightError()
	}
	return fn(s.selection)
}

// ToggleIngredient flips an ingredient's membership
func (s *Session) ToggleIngredient(item string) (selected bool, err error) {
	err = s.mutate(func(sel *generation.SelectionState) error {
		selected = sel.ToggleIngredient(item)
		return nil
	})
	return selected, err
}

// AddCustomIngredient adds free-text input after trimming
func (s *Session) AddCustomIngredient(text string) (added bool, err error) {
	err = s.mutate(func(sel *generation.SelectionState) error {
		added = sel.AddCustomIngredient(text)
		return nil
	})
	return added, err
}

// ToggleDietaryFilter flips a dietary filter's membership
func (s *Session) ToggleDietaryFilter(name string) (selected bool, err error) {
	err = s.mutate(func(sel *generation.SelectionState) error {
		var terr error
		selected, terr = sel.ToggleDietaryFilter(name)
		if terr != nil {
			return errors.NewBadRequestError(terr.Error()).WithCause(terr).WithMetadata("filter", name)
		}
		return nil
	})
	return selected, err
}

// SetSpiceLevel stores a clamped spice level
func (s *Session) SetSpiceLevel(n int) (level int, err error) {
	err = s.mutate(func(sel *generation.SelectionState) error {
		level = sel.SetSpiceLevel(n)
		return nil
	})
	return level, err
}

// SetPortions stores a clamped portion count
func (s *Session) SetPortions(n int) (portions int, err error) {
	err = s.mutate(func(sel *generation.SelectionState) error {
		portions = sel.SetPortions(n)
		return nil
	})
	return portions, err
}

// SetCuisine selects a cuisine style
func (s *Session) SetCuisine(name string) error {
	return s.mutate(func(sel *generation.SelectionState) error {
		if err := sel.SetCuisine(name); err != nil {
			return errors.NewBadRequestError(err.Error()).WithCause(err).WithMetadata("cuisine", name)
		}
		return nil
	})
}

// Reset clears the selection and any prior result or error
func (s *Session) Reset() error {
	return s.mutate(func(sel *generation.SelectionState) error {
		sel.Reset()
		s.result = nil
		s.errMsg = ""
		return nil
	})
}

// Submit composes the request and sends it to the backend. Local validation
// failures and in-flight conflicts are returned as errors; every backend
// outcome is returned as a GenerationResult.
func (s *Session) Submit(ctx context.Context, cred outbound.Credential) (generation.GenerationResult, error) {
	req, err := s.begin()
	if err != nil {
		return generation.GenerationResult{}, err
	}
	defer s.finish()

	s.logger.Info("Submitting recipe generation",
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Strings("dietary", req.Dietary),
		zap.String("cuisine", req.Cuisine),
		zap.Bool("bearer", cred.UsesBearer()),
	)

	started := time.Now()
	result := s.dispatch(ctx, cred, req)
	s.metrics.ObserveGeneration(result.Kind, time.Since(started))

	s.record(result)
	return result, nil
}

// begin validates the selection and raises the loading flag.
func (s *Session) begin() (generation.GenerationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return generation.GenerationRequest{}, inFlightError()
	}

	req, err := s.selection.BuildRequest()
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		s.result = nil
		s.errMsg = err.Error()
		s.metrics.ObserveValidationFailure()
		return generation.GenerationRequest{}, errors.NewValidationError(err.Error()).WithCause(err)
	}

	s.loading = true
	s.result = nil
	s.errMsg = ""
	return req, nil
}

// finish clears the loading flag; deferred so no exit path leaves it set.
func (s *Session) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) dispatch(ctx context.Context, cred outbound.Credential, req generation.GenerationRequest) generation.GenerationResult {
	reply, err := s.backend.Generate(ctx, cred, req)
	if err != nil {
		s.logger.Error("Recipe generation request failed", zap.Error(err))
		return generation.Failure("")
	}

	result := generation.Interpret(reply.StatusCode, reply.Body)
	if result.Kind != generation.ResultSuccess {
		s.logger.Warn("Recipe generation rejected",
			zap.Int("status", reply.StatusCode),
			zap.String("kind", string(result.Kind)),
			zap.String("backend_error", reply.Body.Error),
		)
	}
	return result
}

func (s *Session) record(result generation.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reportsBalance(result) {
		s.recorded++
	}
	s.setBalance(s.balance.Apply(result))
	s.result = &result
	switch result.Kind {
	case generation.ResultQuotaExceeded, generation.ResultFailure:
		s.errMsg = result.Message
	}
}

func reportsBalance(result generation.GenerationResult) bool {
	switch result.Kind {
	case generation.ResultQuotaExceeded:
		return true
	case generation.ResultSuccess:
		return result.RemainingCredits != nil
	}
	return false
}

// setBalance must be called with mu held.
func (s *Session) setBalance(next generation.CreditBalance) {
	if next.IsExhausted() && !s.balance.IsExhausted() {
		s.metrics.ObserveCreditsExhausted()
	}
	s.balance = next
}

// LoadCredits initializes the balance from the backend's account endpoint.
// A submission that resolves while the fetch is in flight keeps its newer
// balance.
func (s *Session) LoadCredits(ctx context.Context, cred outbound.Credential) error {
	s.mu.Lock()
	seen := s.recorded
	s.mu.Unlock()

	info, err := s.backend.FetchAccount(ctx, cred)
	if err != nil {
		s.logger.Warn("Failed to fetch credits", zap.Error(err))
		return errors.Wrap(err, "failed to fetch credits")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorded == seen {
		s.setBalance(generation.KnownBalance(info.Credits))
	} else {
		s.logger.Debug("Discarding stale credit balance", zap.Int("credits", info.Credits))
	}
	s.subscription = info.SubscriptionStatus
	s.displayName = info.Name
	return nil
}

// Subscribe starts a checkout for the given plan, monthly by default
func (s *Session) Subscribe(ctx context.Context, cred outbound.Credential, plan string) (*outbound.CheckoutSession, error) {
	plan = strings.ToLower(strings.TrimSpace(plan))
	if plan == "" {
		plan = PlanMonthly
	}
	if plan != PlanMonthly && plan != PlanYearly {
		return nil, errors.NewBadRequestError("unknown subscription plan").WithMetadata("plan", plan)
	}

	checkout, err := s.backend.CreateCheckoutSession(ctx, cred, plan)
	if err != nil {
		s.logger.Warn("Failed to create checkout session", zap.String("plan", plan), zap.Error(err))
		return nil, errors.Wrap(err, "failed to create checkout session")
	}
	return checkout, nil
}

// State returns a consistent snapshot of the session
func (s *Session) State() inbound.CookState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := inbound.CookState{
		Selection:          s.selection.Snapshot(),
		Loading:            s.loading,
		Credits:            s.balance,
		SubscriptionStatus: s.subscription,
		DisplayName:        s.displayName,
		UpgradeSuggested:   s.balance.IsExhausted() && s.subscription != subscriptionPremium,
		Error:              s.errMsg,
	}
	if s.result != nil {
		result := *s.result
		state.Result = &result
	}
	return state
}

func inFlightError() error {
	return errors.NewConflictError(generation.ErrSubmissionInFlight.Error()).
		WithCause(generation.ErrSubmissionInFlight)
}
