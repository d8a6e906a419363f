package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/infrastructure/provider"
)

type VerifyOTPRequest struct {
	ProviderKey   string         `json:"provider_key" validate:"required"`
	ProviderToken string         `json:"provider_token" validate:"required"`
	Meta          map[string]any `json:"meta"`
}

type RequestCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

// Service is the verification-to-token pipeline: it is the only component
// that touches both the provider layer and the identity/token layer.
type Service interface {
	// RequestCode asks the self-hosted code provider to deliver a fresh
	// login code to phoneNumber.
	RequestCode(ctx context.Context, phoneNumber string) error

	// VerifyOTP runs the full pipeline: resolve adapter, verify the token,
	// provision-or-load the user, issue a session token. On any failure no
	// user is created and no token issued.
	VerifyOTP(ctx context.Context, providerKey, providerToken string, meta map[string]any) (string, *domain.User, error)
}

type adapterResolver interface {
	Resolve(key string) (provider.Adapter, error)
}

type codeRequester interface {
	RequestCode(ctx context.Context, phoneNumber string) error
}

type userDirectory interface {
	FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type tokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type service struct {
	registry      adapterResolver
	codes         codeRequester
	users         userDirectory
	tokens        tokenIssuer
	verifyTimeout time.Duration
}

type ServiceDeps struct {
	Registry      adapterResolver
	CodeRequester codeRequester
	Users         userDirectory
	Tokens        tokenIssuer
	VerifyTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		registry:      deps.Registry,
		codes:         deps.CodeRequester,
		users:         deps.Users,
		tokens:        deps.Tokens,
		verifyTimeout: deps.VerifyTimeout,
	}
}

func (s *service) RequestCode(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return fmt.Errorf("phone_number required: %w", domain.ErrBadRequest)
	}
	return s.codes.RequestCode(ctx, phoneNumber)
}

func (s *service) VerifyOTP(ctx context.Context, providerKey, providerToken string, meta map[string]any) (string, *domain.User, error) {
	adapter, err := s.registry.Resolve(providerKey)
	if err != nil {
		return "", nil, err
	}

	// Provider calls go over external networks and may hang; bound them.
	// A timeout is a transport fault, not a rejected code.
	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	result, err := adapter.Verify(vctx, providerToken, meta)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, fmt.Errorf("provider %s timed out: %w", providerKey, domain.ErrProviderUnavailable)
		}
		return "", nil, err
	}
	if !result.Success {
		return "", nil, fmt.Errorf("provider %s rejected the code: %w", providerKey, domain.ErrVerificationFailed)
	}
	if result.PhoneNumber == "" {
		// Success without an identity is a provider contract violation; it
		// must never produce an anonymous token.
		slog.Error("otp provider reported success without a phone number", "provider", providerKey)
		return "", nil, fmt.Errorf("provider %s: %w", providerKey, domain.ErrMissingIdentity)
	}

	user, err := s.users.FindOrCreateByPhone(ctx, result.PhoneNumber)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
