package profile

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
	pkgotp "github.com/go-otp-auth/internal/pkg/otp"
)

// Service manages the profile attached to a user plus its address book and
// the optional e-mail confirmation flow.
type Service interface {
	Get(ctx context.Context, phoneNumber string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, phoneNumber string, req domain.UpsertProfileRequest) (*domain.UserProfile, error)

	AddAddress(ctx context.Context, phoneNumber string, req domain.AddressRequest) (*domain.Address, error)
	UpdateAddress(ctx context.Context, phoneNumber, addressID string, req domain.AddressRequest) (*domain.Address, error)
	DeleteAddress(ctx context.Context, phoneNumber, addressID string) error

	RequestEmailConfirmation(ctx context.Context, phoneNumber string) error
	ConfirmEmail(ctx context.Context, phoneNumber, token string) error
}

type profileStore interface {
	Put(ctx context.Context, p *domain.UserProfile) error
	Get(ctx context.Context, phoneNumber string) (*domain.UserProfile, error)
	Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, phoneNumber, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, phoneNumber, verType string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	profiles      profileStore
	verifications verificationStore
	mailer        mailer
	tokenTTL      time.Duration
}

type ServiceDeps struct {
	ProfileRepo      profileStore
	VerificationRepo verificationStore
	Mailer           mailer
	TokenTTL         time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		profiles:      deps.ProfileRepo,
		verifications: deps.VerificationRepo,
		mailer:        deps.Mailer,
		tokenTTL:      deps.TokenTTL,
	}
}

func (s *service) Get(ctx context.Context, phoneNumber string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, phoneNumber)
}

func (s *service) Upsert(ctx context.Context, phoneNumber string, req domain.UpsertProfileRequest) (*domain.UserProfile, error) {
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", *req.DateOfBirth); err != nil {
			return nil, fmt.Errorf("date_of_birth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
	}

	now := time.Now().UTC()
	existing, err := s.profiles.Get(ctx, phoneNumber)
	if err != nil {
		// Only a confirmed miss starts a fresh profile. A store fault must
		// not be mistaken for absence: putting an empty profile over the
		// stored item would wipe addresses and the confirmed e-mail.
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		existing = &domain.UserProfile{
			PhoneNumber: phoneNumber,
			Addresses:   []domain.Address{},
			CreatedAt:   now,
		}
	}

	existing.FirstName = req.FirstName
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != existing.Email {
		// A changed address must be re-confirmed.
		existing.Email = *req.Email
		existing.EmailConfirmed = false
	}
	if req.DateOfBirth != nil {
		existing.DateOfBirth = *req.DateOfBirth
	}
	existing.UpdatedAt = now

	if err := s.profiles.Put(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) AddAddress(ctx context.Context, phoneNumber string, req domain.AddressRequest) (*domain.Address, error) {
	p, err := s.profiles.Get(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	addr := addressFromRequest(req)
	addr.AddressID = id.New()

	if addr.Default {
		clearDefault(p.Addresses)
	} else if len(p.Addresses) == 0 {
		// First address becomes the default.
		addr.Default = true
	}
	p.Addresses = append(p.Addresses, addr)

	if err := s.saveAddresses(ctx, phoneNumber, p.Addresses); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *service) UpdateAddress(ctx context.Context, phoneNumber, addressID string, req domain.AddressRequest) (*domain.Address, error) {
	p, err := s.profiles.Get(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	idx := -1
	for i := range p.Addresses {
		if p.Addresses[i].AddressID == addressID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("address not found: %w", domain.ErrNotFound)
	}

	updated := addressFromRequest(req)
	updated.AddressID = addressID
	if updated.Default {
		clearDefault(p.Addresses)
	}
	p.Addresses[idx] = updated

	if err := s.saveAddresses(ctx, phoneNumber, p.Addresses); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *service) DeleteAddress(ctx context.Context, phoneNumber, addressID string) error {
	p, err := s.profiles.Get(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	kept := p.Addresses[:0]
	found := false
	for _, a := range p.Addresses {
		if a.AddressID == addressID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("address not found: %w", domain.ErrNotFound)
	}
	return s.saveAddresses(ctx, phoneNumber, kept)
}

func (s *service) RequestEmailConfirmation(ctx context.Context, phoneNumber string) error {
	p, err := s.profiles.Get(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	if p.Email == "" {
		return fmt.Errorf("no email on profile: %w", domain.ErrBadRequest)
	}
	token, err := pkgotp.NewToken(32)
	if err != nil {
		return err
	}
	v := &domain.Verification{
		PhoneNumber: phoneNumber,
		Type:        domain.VerificationEmail,
		Code:        token,
		ExpiresAt:   time.Now().Add(s.tokenTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(p.Email, "Confirm your email", "Token: "+token)
}

func (s *service) ConfirmEmail(ctx context.Context, phoneNumber, token string) error {
	v, err := s.verifications.Get(ctx, phoneNumber, domain.VerificationEmail)
	if err != nil {
		return fmt.Errorf("token not found: %w", domain.ErrNotFound)
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(token)) != 1 {
		return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	}
	if err := s.verifications.Delete(ctx, phoneNumber, domain.VerificationEmail); err != nil {
		slog.Warn("failed to delete email verification record", "phone_number", phoneNumber, "err", err)
	}
	return s.profiles.Update(ctx, phoneNumber, map[string]interface{}{
		"email_confirmed": true,
		"updated_at":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *service) saveAddresses(ctx context.Context, phoneNumber string, addrs []domain.Address) error {
	return s.profiles.Update(ctx, phoneNumber, map[string]interface{}{
		"addresses":  addrs,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func addressFromRequest(req domain.AddressRequest) domain.Address {
	return domain.Address{
		Line1:     req.Line1,
		Line2:     req.Line2,
		PlaceID:   req.PlaceID,
		PlaceName: req.PlaceName,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Default:   req.Default,
	}
}

func clearDefault(addrs []domain.Address) {
	for i := range addrs {
		addrs[i].Default = false
	}
}
