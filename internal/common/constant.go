// Package common contains shared constants and helpers used across
// AdminDash components.
package common

import "time"

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// SessionRetention is how long a persisted session survives locally,
// regardless of the token's own exp claim.
const SessionRetention = 7 * 24 * time.Hour
