package provider

import "context"

// VerifyResult is the normalized outcome of one verification attempt against
// an external OTP backend. It is consumed synchronously and never persisted.
type VerifyResult struct {
	// Success is false when the backend explicitly rejected the code. A
	// rejection is not an error; errors are reserved for transport faults.
	Success bool

	// SubjectID is the provider's own identifier for the verified party, if
	// it reports one. Informational only; it is never used as the identity key.
	SubjectID string

	// PhoneNumber is the verified phone number. Required whenever Success is
	// true; a success without it is a contract violation by the provider.
	PhoneNumber string

	// Metadata carries provider-specific extras for debugging.
	Metadata map[string]any
}

// Adapter is the capability contract one external OTP backend fulfils.
//
// Implementations must be safe for concurrent use and must not mutate shared
// state per call. A failed verification is reported through
// VerifyResult.Success, not an error; an error return means the backend could
// not be consulted at all and is wrapped in domain.ErrProviderUnavailable.
type Adapter interface {
	// Key returns the stable, case-sensitive identifier this adapter is
	// registered under. Never empty, unique across all registered adapters.
	Key() string

	// Verify checks providerToken against the backend. meta carries optional
	// provider-specific input (e.g. the phone number the code was sent to)
	// and may be nil.
	Verify(ctx context.Context, providerToken string, meta map[string]any) (*VerifyResult, error)
}
