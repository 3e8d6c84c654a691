// Package auth holds the client-side representation of credentials: the
// access/refresh token pair and the session derived from the access token's
// claims. Tokens are treated as opaque-but-parseable; signature verification
// is the backend's responsibility.
package auth

// TokenPair is the access/refresh credential pair issued by the backend on
// login and on every refresh exchange. The pair is always replaced as a
// whole, never one half at a time.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
