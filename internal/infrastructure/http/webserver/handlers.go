package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/recipeverse/web/internal/domain/generation"
	"github.com/recipeverse/web/internal/ports/inbound"
	"github.com/recipeverse/web/pkg/errors"
	"go.uber.org/zap"
)

const (
	loginPath       = "/login"
	maxRequestBytes = 64 << 10
)

type itemRequest struct {
	Item string `json:"item"`
}

type textRequest struct {
	Text string `json:"text"`
}

type intValueRequest struct {
	Value int `json:"value"`
}

type stringValueRequest struct {
	Value string `json:"value"`
}

type toggleResponse struct {
	Selected bool              `json:"selected"`
	State    inbound.CookState `json:"state"`
}

type valueResponse struct {
	Value int               `json:"value"`
	State inbound.CookState `json:"state"`
}

type optionsResponse struct {
	Ingredients    []generation.IngredientCategory `json:"ingredients"`
	DietaryFilters []generation.DietaryFilter      `json:"dietary_filters"`
	Cuisines       []string                        `json:"cuisines"`
	SpiceLevel     rangeOption                     `json:"spice_level"`
	Portions       rangeOption                     `json:"portions"`
}

type rangeOption struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type generateResponse struct {
	Result     generation.GenerationResult `json:"result"`
	RecipeHTML string                      `json:"recipe_html,omitempty"`
	Redirect   string                      `json:"redirect,omitempty"`
	Error      *errors.ErrorDetails        `json:"error,omitempty"`
	State      inbound.CookState           `json:"state"`
}

type subscribeResponse struct {
	Redirect  string `json:"redirect,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Cook handlers

func (s *WebServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, sessionFrom(r).Cook.State())
}

func (s *WebServer) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, optionsResponse{
		Ingredients:    generation.IngredientCatalog,
		DietaryFilters: generation.DietaryFilters,
		Cuisines:       generation.Cuisines,
		SpiceLevel: rangeOption{
			Min: generation.MinSpiceLevel, Max: generation.MaxSpiceLevel, Default: generation.DefaultSpiceLevel,
		},
		Portions: rangeOption{
			Min: generation.MinPortions, Max: generation.MaxPortions, Default: generation.DefaultPortions,
		},
	})
}

func (s *WebServer) handleToggleIngredient(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	selected, err := cook.ToggleIngredient(req.Item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toggleResponse{Selected: selected, State: cook.State()})
}

func (s *WebServer) handleAddCustomIngredient(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	added, err := cook.AddCustomIngredient(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toggleResponse{Selected: added, State: cook.State()})
}

func (s *WebServer) handleToggleDietary(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	selected, err := cook.ToggleDietaryFilter(req.Item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toggleResponse{Selected: selected, State: cook.State()})
}

func (s *WebServer) handleSetSpice(w http.ResponseWriter, r *http.Request) {
	var req intValueRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	level, err := cook.SetSpiceLevel(req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: level, State: cook.State()})
}

func (s *WebServer) handleSetPortions(w http.ResponseWriter, r *http.Request) {
	var req intValueRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	portions, err := cook.SetPortions(req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: portions, State: cook.State()})
}

func (s *WebServer) handleSetCuisine(w http.ResponseWriter, r *http.Request) {
	var req stringValueRequest
	if !s.decode(w, r, &req) {
		return
	}
	cook := sessionFrom(r).Cook
	if err := cook.SetCuisine(req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cook.State())
}

func (s *WebServer) handleReset(w http.ResponseWriter, r *http.Request) {
	cook := sessionFrom(r).Cook
	if err := cook.Reset(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cook.State())
}

func (s *WebServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cook := sessionFrom(r).Cook

	// A dispatched submission runs to resolution even if the browser goes away;
	// the backend timeout still bounds it.
	ctx := context.WithoutCancel(r.Context())
	result, err := cook.Submit(ctx, s.credentialFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := generateResponse{Result: result}
	status := http.StatusOK
	if result.Kind == generation.ResultSuccess {
		html, rerr := s.renderer.Render(result.RecipeText)
		if rerr != nil {
			s.logger.Error("Failed to render recipe", zap.Error(rerr))
		}
		resp.RecipeHTML = html
	} else {
		appErr := outcomeError(result)
		status = appErr.StatusCode()
		details := errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())).Error
		resp.Error = &details
		if result.Kind == generation.ResultAuthRequired {
			resp.Redirect = loginPath
		}
	}
	resp.State = cook.State()

	s.writeJSON(w, status, resp)
}

func (s *WebServer) handleRefreshCredits(w http.ResponseWriter, r *http.Request) {
	cook := sessionFrom(r).Cook
	if err := cook.LoadCredits(r.Context(), s.credentialFrom(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cook.State())
}

func (s *WebServer) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	checkout, err := sessionFrom(r).Cook.Subscribe(r.Context(), s.credentialFrom(r), r.URL.Query().Get("plan"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, subscribeResponse{
		Redirect:  checkout.RedirectURL,
		SessionID: checkout.SessionID,
	})
}

// Helpers

// outcomeError maps a non-success generation outcome to its API error.
func outcomeError(result generation.GenerationResult) *errors.AppError {
	switch result.Kind {
	case generation.ResultAuthRequired:
		return errors.NewAuthRequiredError()
	case generation.ResultQuotaExceeded:
		return errors.NewQuotaExceededError(result.Message)
	default:
		return errors.NewGenerationFailedError(result.Message)
	}
}

func (s *WebServer) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, errors.NewBadRequestError(fmt.Sprintf("invalid request body: %v", err)))
		return false
	}
	return true
}

func (s *WebServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "internal server error")
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}

	s.writeJSON(w, status, errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())))
}

func (s *WebServer) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
