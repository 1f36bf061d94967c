package domain

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes; the HTTP layer maps it to 422.
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrChannelNotConfigured = errors.New("outbound channel not configured")
)
