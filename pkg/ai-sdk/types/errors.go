package types

import "errors"

var (
	// ErrProviderNotSet is returned when a provider is not configured
	ErrProviderNotSet = errors.New("provider not set")

	// ErrUnknownProvider is returned when the configured provider name is not recognised
	ErrUnknownProvider = errors.New("unknown inference provider")

	// ErrEmptyResponse is returned when the provider returns an empty response
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrInvalidSession is returned when a session cannot be stored (e.g. missing ID)
	ErrInvalidSession = errors.New("invalid session")
)
