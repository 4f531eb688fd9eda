package generation

// ResultKind tags the variant held by a GenerationResult.
type ResultKind string

const (
	ResultSuccess       ResultKind = "success"
	ResultQuotaExceeded ResultKind = "quota_exceeded"
	ResultAuthRequired  ResultKind = "auth_required"
	ResultFailure       ResultKind = "failure"
)

// User-facing messages.
const (
	MessageQuotaExceeded    = "You've reached your recipe generation limit."
	MessageGenerationFailed = "Failed to generate recipe. Please try again."
)

// GenerationResult is the outcome of exactly one submission.
// RecipeText and RemainingCredits are only meaningful for ResultSuccess,
// Message only for ResultQuotaExceeded and ResultFailure.
type GenerationResult struct {
	Kind             ResultKind `json:"kind"`
	RecipeText       string     `json:"recipe_text,omitempty"`
	RemainingCredits *int       `json:"remaining_credits,omitempty"`
	Message          string     `json:"message,omitempty"`
}

// Success builds a successful result. remaining may be nil.
func Success(text string, remaining *int) GenerationResult {
	return GenerationResult{Kind: ResultSuccess, RecipeText: text, RemainingCredits: remaining}
}

// QuotaExceeded builds a quota exhaustion result.
func QuotaExceeded(message string) GenerationResult {
	if message == "" {
		message = MessageQuotaExceeded
	}
	return GenerationResult{Kind: ResultQuotaExceeded, Message: message}
}

// AuthRequired builds the result that signals re-authentication.
func AuthRequired() GenerationResult {
	return GenerationResult{Kind: ResultAuthRequired}
}

// Failure builds a generic failure result.
func Failure(message string) GenerationResult {
	if message == "" {
		message = MessageGenerationFailed
	}
	return GenerationResult{Kind: ResultFailure, Message: message}
}

// IsSuccess reports whether the result is ResultSuccess.
func (r GenerationResult) IsSuccess() bool { return r.Kind == ResultSuccess }
