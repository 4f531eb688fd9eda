package generation

import "encoding/json"

// CreditBalance is the user's remaining credits, unknown until fetched.
type CreditBalance struct {
	value int
	known bool
}

// UnknownBalance returns a balance that has not been fetched yet.
func UnknownBalance() CreditBalance { return CreditBalance{} }

// KnownBalance returns a balance holding n credits.
func KnownBalance(n int) CreditBalance { return CreditBalance{value: n, known: true} }

// Value returns the credit count and whether it is known.
func (b CreditBalance) Value() (int, bool) { return b.value, b.known }

// Known reports whether the balance has been fetched.
func (b CreditBalance) Known() bool { return b.known }

// IsExhausted reports whether the balance is known to be zero or less.
func (b CreditBalance) IsExhausted() bool { return b.known && b.value <= 0 }

// Apply returns the balance after a submission outcome. A success carrying
// remaining credits replaces the balance, quota exhaustion forces it to zero,
// every other outcome leaves it unchanged.
func (b CreditBalance) Apply(r GenerationResult) CreditBalance {
	switch r.Kind {
	case ResultSuccess:
		if r.RemainingCredits != nil {
			return KnownBalance(*r.RemainingCredits)
		}
	case ResultQuotaExceeded:
		return KnownBalance(0)
	}
	return b
}

// MarshalJSON encodes the balance as a number, or null when unknown.
func (b CreditBalance) MarshalJSON() ([]byte, error) {
	if !b.known {
		return []byte("null"), nil
	}
	return json.Marshal(b.value)
}
