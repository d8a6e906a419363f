package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldRoles = "roles"
)

// Service is the user directory: identities keyed by phone number. The first
// successful OTP verification for an unseen phone number provisions the
// account — there is no separate registration step.
type Service interface {
	FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
	Get(ctx context.Context, phoneNumber string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	AssignRoles(ctx context.Context, phoneNumber string, roles []string) (*domain.User, error)
	Delete(ctx context.Context, phoneNumber string) error
}

type userStore interface {
	Get(ctx context.Context, phoneNumber string) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, phoneNumber string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// FindOrCreateByPhone returns the user with the given phone number, creating
// it with the default USER role when absent. The create is a single atomic
// find-or-insert in the store, so concurrent verifications for the same
// number resolve to one principal.
func (s *service) FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		PhoneNumber: phoneNumber,
		UserID:      id.New(),
		Roles:       []string{domain.RoleUser},
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.CreateIfAbsent(ctx, u)
}

func (s *service) Get(ctx context.Context, phoneNumber string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) AssignRoles(ctx context.Context, phoneNumber string, roles []string) (*domain.User, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("at least one role required: %w", domain.ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, phoneNumber); err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.repo.Update(ctx, phoneNumber, map[string]interface{}{fieldRoles: roles}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, phoneNumber)
}

func (s *service) Delete(ctx context.Context, phoneNumber string) error {
	if _, err := s.repo.Get(ctx, phoneNumber); err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.repo.SoftDelete(ctx, phoneNumber)
}
