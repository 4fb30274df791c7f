// Package token reads the claims of the bearer JWT issued by the remote
// authentication service.
//
// The signature is never verified here: no secret is available on this side
// and verification is the issuer's job. Claims are used for display and for
// the exp check only.
//
//   - Codec.Decode extracts the payload of a compact JWS into Claims.
//   - Validator.IsValid reports whether a token's exp lies strictly in the
//     future.
//
// Decode failures wrap ErrDecode and are never logged with payload content.
package token
