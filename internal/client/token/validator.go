package token

import "time"

// Validator checks the exp claim of a token against wall-clock time.
type Validator struct {
	codec *Codec
}

func NewValidator(codec *Codec) *Validator {
	return &Validator{codec: codec}
}

// IsValid reports whether token decodes and its exp is strictly after now,
// both in whole seconds. A token without exp is invalid.
func (v *Validator) IsValid(token string, now time.Time) bool {
	claims, err := v.codec.Decode(token)
	if err != nil {
		return false
	}

	exp, ok := claims.Expiry()
	if !ok {
		return false
	}

	return exp > float64(now.Unix())
}
