package http

import (
	"context"

	"github.com/go-otp-auth/internal/domain"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	"github.com/go-otp-auth/internal/infrastructure/provider"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
)

// UserRepository is the minimal interface the router requires from the user store.
type UserRepository interface {
	Get(ctx context.Context, phoneNumber string) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, phoneNumber string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

// ProfileRepository is the minimal interface the router requires from the profile store.
type ProfileRepository interface {
	Put(ctx context.Context, p *domain.UserProfile) error
	Get(ctx context.Context, phoneNumber string) (*domain.UserProfile, error)
	Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error
}

// VerificationRepository is the minimal interface the router requires from the verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, phoneNumber, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, phoneNumber, verType string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	ProfileRepo      ProfileRepository
	VerificationRepo VerificationRepository
	Registry         *provider.Registry
	CodeAdapter      *provider.DynamoAdapter
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
}
