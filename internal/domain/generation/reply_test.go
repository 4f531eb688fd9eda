package generation

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeReply(t *testing.T, raw string) ReplyBody {
	t.Helper()
	var body ReplyBody
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func intPtr(n int) *int { return &n }

func TestInterpret(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   GenerationResult
	}{
		{
			name:   "canonical success",
			status: http.StatusOK,
			body:   `{"recipe_text":"X","remaining_credits":2}`,
			want:   Success("X", intPtr(2)),
		},
		{
			name:   "legacy aliases",
			status: http.StatusOK,
			body:   `{"recipe":"Soup","credits":7}`,
			want:   Success("Soup", intPtr(7)),
		},
		{
			name:   "canonical fields win over aliases",
			status: http.StatusCreated,
			body:   `{"recipe_text":"A","recipe":"B","remaining_credits":1,"credits":9}`,
			want:   Success("A", intPtr(1)),
		},
		{
			name:   "missing recipe is still success",
			status: http.StatusOK,
			body:   `{}`,
			want:   Success("", nil),
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error":"no_credits"}`,
			want:   AuthRequired(),
		},
		{
			name:   "too many requests uses backend message",
			status: http.StatusTooManyRequests,
			body:   `{"message":"Come back tomorrow"}`,
			want:   QuotaExceeded("Come back tomorrow"),
		},
		{
			name:   "too many requests without message",
			status: http.StatusTooManyRequests,
			body:   `{}`,
			want:   QuotaExceeded(MessageQuotaExceeded),
		},
		{
			name:   "no_credits code",
			status: http.StatusPaymentRequired,
			body:   `{"error":"no_credits","message":"Out of credits"}`,
			want:   QuotaExceeded("Out of credits"),
		},
		{
			name:   "daily_limit_reached code",
			status: http.StatusBadRequest,
			body:   `{"error":"daily_limit_reached"}`,
			want:   QuotaExceeded(""),
		},
		{
			name:   "other error hides backend message",
			status: http.StatusInternalServerError,
			body:   `{"error":"server_error","message":"stack trace here"}`,
			want:   Failure(MessageGenerationFailed),
		},
		{
			name:   "unauthorized is a plain failure",
			status: http.StatusUnauthorized,
			body:   `{}`,
			want:   Failure(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.status, decodeReply(t, tt.body))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreditBalance_Apply(t *testing.T) {
	t.Run("success with credits replaces balance", func(t *testing.T) {
		b := KnownBalance(5).Apply(Success("X", intPtr(2)))
		n, known := b.Value()
		assert.True(t, known)
		assert.Equal(t, 2, n)
	})

	t.Run("success without credits keeps balance", func(t *testing.T) {
		b := KnownBalance(5).Apply(Success("X", nil))
		n, _ := b.Value()
		assert.Equal(t, 5, n)
	})

	t.Run("quota forces zero from any prior value", func(t *testing.T) {
		for _, prior := range []CreditBalance{UnknownBalance(), KnownBalance(5), KnownBalance(0)} {
			b := prior.Apply(QuotaExceeded(""))
			n, known := b.Value()
			assert.True(t, known)
			assert.Equal(t, 0, n)
			assert.True(t, b.IsExhausted())
		}
	})

	t.Run("auth and failure leave balance unchanged", func(t *testing.T) {
		assert.Equal(t, KnownBalance(4), KnownBalance(4).Apply(AuthRequired()))
		assert.Equal(t, KnownBalance(4), KnownBalance(4).Apply(Failure("")))
		assert.False(t, UnknownBalance().Apply(Failure("")).Known())
	})
}

func TestCreditBalance_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		A CreditBalance `json:"a"`
		B CreditBalance `json:"b"`
	}{UnknownBalance(), KnownBalance(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":3}`, string(raw))
}

func TestGenerationRequest_Validate(t *testing.T) {
	valid := GenerationRequest{
		Ingredients: []string{"Rice"},
		Dietary:     []string{"Gluten-Free"},
		SpiceLevel:  3,
		CookTime:    30,
		Difficulty:  "easy",
		Portions:    2,
		Cuisine:     "Random",
	}
	require.NoError(t, valid.Validate())

	noIngredients := valid
	noIngredients.Ingredients = nil
	assert.Error(t, noIngredients.Validate())

	badDietary := valid
	badDietary.Dietary = []string{"Carnivore"}
	assert.ErrorContains(t, badDietary.Validate(), "oneof")

	tooSpicy := valid
	tooSpicy.SpiceLevel = 6
	assert.ErrorContains(t, tooSpicy.Validate(), "SpiceLevel")

	noCuisine := valid
	noCuisine.Cuisine = ""
	assert.ErrorContains(t, noCuisine.Validate(), "Cuisine")
}

func TestGenerationRequest_WireFormat(t *testing.T) {
	selection := NewSelectionState()
	selection.ToggleIngredient("Eggs")

	req, err := selection.BuildRequest()
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ingredients": ["Eggs"],
		"dietary": [],
		"spice_level": 3,
		"cook_time": 30,
		"difficulty": "easy",
		"portions": 2,
		"cuisine": "Random"
	}`, string(raw))
}
