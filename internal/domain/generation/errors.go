package generation

import "errors"

// Domain errors for recipe generation

var (
	// Selection errors
	ErrNoIngredients        = errors.New("select at least one ingredient")
	ErrUnknownDietaryFilter = errors.New("unknown dietary filter")
	ErrUnknownCuisine       = errors.New("unknown cuisine")

	// Session errors
	ErrSubmissionInFlight = errors.New("a recipe generation is already in progress")
)
