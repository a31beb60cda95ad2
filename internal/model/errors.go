package model

import "errors"

var (
	// ErrSourceUnavailable indicates the upstream messages API could not be reached
	// or answered with a non-success status.
	ErrSourceUnavailable = errors.New("upstream source unavailable")

	// ErrMalformedData indicates the upstream payload could not be decoded into
	// message records.
	ErrMalformedData = errors.New("malformed upstream data")

	// ErrNotReady indicates the store has not been populated yet.
	ErrNotReady = errors.New("message store not ready")

	// ErrInvalidParameter indicates a pagination parameter outside the accepted range.
	ErrInvalidParameter = errors.New("invalid parameter")
)
