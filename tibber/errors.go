package tibber

import "errors"

// Sentinel error conditions surfaced by the client. Callers distinguish
// them with errors.Is; none is retried automatically.
var (
	// ErrUnauthorized means the upstream rejected the access token.
	ErrUnauthorized = errors.New("tibber: authentication rejected")

	// ErrNotFound means the requested home is unknown to the account.
	ErrNotFound = errors.New("tibber: home not found")

	// ErrMalformed means the upstream response could not be parsed.
	ErrMalformed = errors.New("tibber: malformed upstream response")
)
