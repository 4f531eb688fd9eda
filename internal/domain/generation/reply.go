package generation

import "net/http"

// Backend error codes that mean the user is out of credits.
const (
	ErrorCodeNoCredits         = "no_credits"
	ErrorCodeDailyLimitReached = "daily_limit_reached"
)

// ReplyBody is the generation endpoint's JSON body. recipe_text and
// remaining_credits are canonical; recipe and credits are accepted as
// legacy aliases.
type ReplyBody struct {
	RecipeText       *string `json:"recipe_text,omitempty"`
	Recipe           *string `json:"recipe,omitempty"`
	RemainingCredits *int    `json:"remaining_credits,omitempty"`
	Credits          *int    `json:"credits,omitempty"`
	Error            string  `json:"error,omitempty"`
	Message          string  `json:"message,omitempty"`
}

// Text returns the recipe text, preferring the canonical field.
func (b ReplyBody) Text() string {
	switch {
	case b.RecipeText != nil:
		return *b.RecipeText
	case b.Recipe != nil:
		return *b.Recipe
	}
	return ""
}

// Remaining returns the remaining credits, preferring the canonical field.
func (b ReplyBody) Remaining() *int {
	if b.RemainingCredits != nil {
		return b.RemainingCredits
	}
	return b.Credits
}

// IsQuotaError reports whether the body carries a credit exhaustion code.
func (b ReplyBody) IsQuotaError() bool {
	return b.Error == ErrorCodeNoCredits || b.Error == ErrorCodeDailyLimitReached
}

// Interpret maps one backend response to a GenerationResult.
// Transport and decoding failures never reach here; callers map those to Failure.
func Interpret(status int, body ReplyBody) GenerationResult {
	switch {
	case status >= 200 && status < 300:
		return Success(body.Text(), body.Remaining())
	case status == http.StatusForbidden:
		return AuthRequired()
	case status == http.StatusTooManyRequests || body.IsQuotaError():
		return QuotaExceeded(body.Message)
	default:
		return Failure("")
	}
}
