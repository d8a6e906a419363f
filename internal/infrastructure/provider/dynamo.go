package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/domain"
	pkgotp "github.com/go-otp-auth/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// KeyDynamo identifies the self-hosted SMS code adapter.
const KeyDynamo = "DYNAMO"

// MetaPhoneNumber is the meta key DynamoAdapter.Verify reads the target phone
// number from.
const MetaPhoneNumber = "phone_number"

type codeStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, phoneNumber, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, phoneNumber, verType string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// DynamoAdapter is the one real adapter in the set: it issues 6-digit codes
// itself, stores a bcrypt hash of each code with a TTL, delivers the code over
// SMS and later verifies a presented code against the stored hash. Codes are
// single use.
type DynamoAdapter struct {
	codes codeStore
	sms   smsSender
	ttl   time.Duration
}

func NewDynamoAdapter(codes codeStore, sms smsSender, ttl time.Duration) *DynamoAdapter {
	return &DynamoAdapter{codes: codes, sms: sms, ttl: ttl}
}

func (a *DynamoAdapter) Key() string { return KeyDynamo }

// RequestCode generates and delivers a fresh code for phoneNumber,
// overwriting any previous one.
func (a *DynamoAdapter) RequestCode(ctx context.Context, phoneNumber string) error {
	if a.sms == nil {
		return fmt.Errorf("sms sender not configured: %w", domain.ErrProviderUnavailable)
	}
	code, err := pkgotp.NewCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	v := &domain.Verification{
		PhoneNumber: phoneNumber,
		Type:        domain.VerificationOTP,
		Code:        string(hash),
		ExpiresAt:   time.Now().Add(a.ttl).Unix(),
	}
	if err := a.codes.Put(ctx, v); err != nil {
		return fmt.Errorf("store otp code: %w", domain.ErrProviderUnavailable)
	}
	if err := a.sms.SendSMS(ctx, phoneNumber, "Your login code: "+code); err != nil {
		return fmt.Errorf("send otp sms: %w", domain.ErrProviderUnavailable)
	}
	return nil
}

// Verify checks the presented code against the stored hash for
// meta["phone_number"]. A wrong, expired or never-requested code is a plain
// verification failure; only storage faults surface as errors.
func (a *DynamoAdapter) Verify(ctx context.Context, providerToken string, meta map[string]any) (*VerifyResult, error) {
	phoneNumber, _ := meta[MetaPhoneNumber].(string)
	if phoneNumber == "" {
		return &VerifyResult{Success: false}, nil
	}

	v, err := a.codes.Get(ctx, phoneNumber, domain.VerificationOTP)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &VerifyResult{Success: false}, nil
		}
		return nil, fmt.Errorf("read otp code: %w", domain.ErrProviderUnavailable)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return &VerifyResult{Success: false}, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(v.Code), []byte(providerToken)) != nil {
		return &VerifyResult{Success: false}, nil
	}

	if err := a.codes.Delete(ctx, phoneNumber, domain.VerificationOTP); err != nil {
		slog.Warn("failed to delete consumed otp code", "phone_number", phoneNumber, "err", err)
	}
	return &VerifyResult{Success: true, PhoneNumber: phoneNumber}, nil
}
