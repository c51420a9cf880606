package auth

import "errors"

var (
	// ErrNoToken is returned when the request carries no bearer token.
	ErrNoToken = errors.New("no bearer token")

	// ErrInvalidToken is returned when the ID token fails verification.
	ErrInvalidToken = errors.New("invalid id token")

	// ErrMissingEmail is returned when the verified token has no email claim.
	ErrMissingEmail = errors.New("id token has no email claim")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrOIDCDisabled is returned when a verifier is requested while OIDC is switched off.
	ErrOIDCDisabled = errors.New("oidc is disabled")
)
