package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// OTP verification pipeline error kinds. Callers discriminate with errors.Is
// to decide whether a failure is retryable (provider unavailable) or terminal.
var (
	// ErrUnknownProvider means the client-supplied provider key has no
	// registered adapter. A client error, never retried.
	ErrUnknownProvider = errors.New("unknown otp provider")

	// ErrProviderUnavailable means the adapter could not complete verification
	// due to a transport or backend fault. Safe to retry.
	ErrProviderUnavailable = errors.New("otp provider unavailable")

	// ErrVerificationFailed means the provider explicitly rejected the OTP.
	// Terminal for that code; the client must request a fresh one.
	ErrVerificationFailed = errors.New("otp verification failed")

	// ErrMissingIdentity means the provider reported success but supplied no
	// phone number. A provider contract violation, surfaced as a server fault
	// rather than an invalid-OTP response.
	ErrMissingIdentity = errors.New("otp provider returned no identity")
)
