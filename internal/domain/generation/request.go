package generation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Fixed request parameters the composer does not expose.
const (
	DefaultCookTime   = 30
	DefaultDifficulty = "easy"
)

// GenerationRequest is the immutable payload sent to the generation endpoint.
type GenerationRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Dietary     []string `json:"dietary" validate:"dive,oneof=Vegan Vegetarian Gluten-Free Dairy-Free Keto Paleo"`
	SpiceLevel  int      `json:"spice_level" validate:"min=1,max=5"`
	CookTime    int      `json:"cook_time" validate:"gt=0"`
	Difficulty  string   `json:"difficulty" validate:"oneof=easy medium hard"`
	Portions    int      `json:"portions" validate:"min=1,max=10"`
	Cuisine     string   `json:"cuisine" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the request against the documented field domains.
func (r GenerationRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid generation request: %s", strings.Join(msgs, "; "))
}
