package domain

import "errors"

var (
	// ErrNoSnapshot means rollback found no snapshot for the target.
	ErrNoSnapshot = errors.New("no snapshot found for target")

	// ErrRetriesExhausted wraps the last provider failure once every retry is spent.
	ErrRetriesExhausted = errors.New("completion retries exhausted")

	ErrProviderUnavailable = errors.New("completion provider unavailable")
	ErrUnknownProvider     = errors.New("unknown completion provider")
	ErrEmptyResponse       = errors.New("completion provider returned an empty response")
	ErrMissingAPIKey       = errors.New("missing API key")

	// ErrRequestRejected marks provider failures that retrying cannot fix,
	// such as authentication errors or malformed requests.
	ErrRequestRejected = errors.New("completion request rejected")
)
