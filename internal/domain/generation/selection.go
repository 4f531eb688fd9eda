// Package generation contains the recipe request composer: the user's
// selection state, the request derived from it and the interpretation of
// the generation backend's reply.
package generation

import (
	"slices"
	"strings"
)

// Selection domains and defaults.
const (
	MinSpiceLevel     = 1
	MaxSpiceLevel     = 5
	DefaultSpiceLevel = 3

	MinPortions     = 1
	MaxPortions     = 10
	DefaultPortions = 2
)

// SelectionState accumulates the options for one generation session.
// It is not safe for concurrent use; the owning session serializes access.
type SelectionState struct {
	ingredients []string
	dietary     []DietaryFilter
	spiceLevel  int
	portions    int
	cuisine     string
}

// NewSelectionState returns a selection holding the defaults.
func NewSelectionState() *SelectionState {
	s := &SelectionState{}
	s.Reset()
	return s
}

// Reset restores every option to its default.
func (s *SelectionState) Reset() {
	s.ingredients = []string{}
	s.dietary = []DietaryFilter{}
	s.spiceLevel = DefaultSpiceLevel
	s.portions = DefaultPortions
	s.cuisine = ""
}

// ToggleIngredient removes item if selected, otherwise appends it.
// It reports whether the item is selected afterwards.
func (s *SelectionState) ToggleIngredient(item string) bool {
	if item == "" {
		return false
	}
	if i := slices.Index(s.ingredients, item); i >= 0 {
		s.ingredients = slices.Delete(s.ingredients, i, i+1)
		return false
	}
	s.ingredients = append(s.ingredients, item)
	return true
}

// AddCustomIngredient appends the trimmed text unless it is empty or
// already selected. It reports whether the selection changed.
func (s *SelectionState) AddCustomIngredient(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || slices.Contains(s.ingredients, trimmed) {
		return false
	}
	s.ingredients = append(s.ingredients, trimmed)
	return true
}

// ToggleDietaryFilter flips membership of a vocabulary filter.
func (s *SelectionState) ToggleDietaryFilter(name string) (bool, error) {
	filter, err := ParseDietaryFilter(name)
	if err != nil {
		return false, err
	}
	if i := slices.Index(s.dietary, filter); i >= 0 {
		s.dietary = slices.Delete(s.dietary, i, i+1)
		return false, nil
	}
	s.dietary = append(s.dietary, filter)
	return true, nil
}

// SetSpiceLevel stores n clamped to [MinSpiceLevel, MaxSpiceLevel].
func (s *SelectionState) SetSpiceLevel(n int) int {
	s.spiceLevel = clamp(n, MinSpiceLevel, MaxSpiceLevel)
	return s.spiceLevel
}

// SetPortions stores n clamped to [MinPortions, MaxPortions].
func (s *SelectionState) SetPortions(n int) int {
	s.portions = clamp(n, MinPortions, MaxPortions)
	return s.portions
}

// SetCuisine selects a cuisine style. Empty and Random both clear it.
func (s *SelectionState) SetCuisine(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == CuisineRandom {
		s.cuisine = ""
		return nil
	}
	if !slices.Contains(Cuisines, name) {
		return ErrUnknownCuisine
	}
	s.cuisine = name
	return nil
}

// Ingredients returns the selected ingredients in insertion order.
func (s *SelectionState) Ingredients() []string {
	return slices.Clone(s.ingredients)
}

// DietaryFilters returns the selected dietary filters in insertion order.
func (s *SelectionState) DietaryFilters() []DietaryFilter {
	return slices.Clone(s.dietary)
}

// SpiceLevel returns the current spice level.
func (s *SelectionState) SpiceLevel() int { return s.spiceLevel }

// Portions returns the current portion count.
func (s *SelectionState) Portions() int { return s.portions }

// Cuisine returns the selected cuisine, empty when unset.
func (s *SelectionState) Cuisine() string { return s.cuisine }

// HasIngredient reports whether item is selected.
func (s *SelectionState) HasIngredient(item string) bool {
	return slices.Contains(s.ingredients, item)
}

// Snapshot returns an immutable copy suitable for display.
func (s *SelectionState) Snapshot() SelectionSnapshot {
	dietary := make([]string, len(s.dietary))
	for i, f := range s.dietary {
		dietary[i] = string(f)
	}
	return SelectionSnapshot{
		Ingredients:    s.Ingredients(),
		DietaryFilters: dietary,
		SpiceLevel:     s.spiceLevel,
		Portions:       s.portions,
		Cuisine:        s.cuisine,
	}
}

// BuildRequest derives the outbound request. It fails with ErrNoIngredients
// when nothing is selected.
func (s *SelectionState) BuildRequest() (GenerationRequest, error) {
	if len(s.ingredients) == 0 {
		return GenerationRequest{}, ErrNoIngredients
	}
	snap := s.Snapshot()
	cuisine := snap.Cuisine
	if cuisine == "" {
		cuisine = CuisineRandom
	}
	return GenerationRequest{
		Ingredients: snap.Ingredients,
		Dietary:     snap.DietaryFilters,
		SpiceLevel:  snap.SpiceLevel,
		CookTime:    DefaultCookTime,
		Difficulty:  DefaultDifficulty,
		Portions:    snap.Portions,
		Cuisine:     cuisine,
	}, nil
}

// SelectionSnapshot is a read-only view of a SelectionState.
type SelectionSnapshot struct {
	Ingredients    []string `json:"ingredients"`
	DietaryFilters []string `json:"dietary"`
	SpiceLevel     int      `json:"spice_level"`
	Portions       int      `json:"portions"`
	Cuisine        string   `json:"cuisine"`
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
