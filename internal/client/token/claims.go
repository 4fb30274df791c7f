package token

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded token payload. Identity fields are optional; callers
// use Lookup with a fallback chain.
type Claims struct {
	values jwt.MapClaims
}

// NewClaims wraps an already decoded payload.
func NewClaims(values map[string]any) Claims {
	return Claims{values: jwt.MapClaims(values)}
}

// Expiry returns the exp claim in seconds since epoch. A missing, zero or
// non-numeric exp reports false.
func (c Claims) Expiry() (float64, bool) {
	exp, ok := number(c.values["exp"])
	if !ok || exp == 0 {
		return 0, false
	}
	return exp, true
}

// Lookup returns the first of keys holding a non-empty string or non-zero
// number. Numbers are rendered in decimal.
func (c Claims) Lookup(keys ...string) (string, bool) {
	for _, k := range keys {
		switch v := c.values[k].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64, json.Number:
			if n, ok := number(v); ok && n != 0 {
				return strconv.FormatFloat(n, 'f', -1, 64), true
			}
		}
	}
	return "", false
}

// Role returns the lower-cased role claim, or "" when absent.
func (c Claims) Role() string {
	role, ok := c.values["role"].(string)
	if !ok {
		return ""
	}
	return strings.ToLower(role)
}

// Map returns a copy of the raw claim set.
func (c Claims) Map() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
