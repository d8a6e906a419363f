package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if out, _ := args.Get(0).(*domain.User); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error {
	return m.Called(ctx, phoneNumber, updates).Error(0)
}

func (m *mockStore) SoftDelete(ctx context.Context, phoneNumber string) error {
	return m.Called(ctx, phoneNumber).Error(0)
}

func (m *mockStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}

func TestFindOrCreateByPhone_NewUserDefaults(t *testing.T) {
	store := &mockStore{}
	store.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.PhoneNumber == "+15550000001" &&
			u.Enable &&
			u.UserID != "" &&
			len(u.Roles) == 1 && u.Roles[0] == domain.RoleUser
	})).Return(&domain.User{PhoneNumber: "+15550000001", Roles: []string{domain.RoleUser}, Enable: true}, nil)

	svc := NewService(store)
	u, err := svc.FindOrCreateByPhone(context.Background(), "+15550000001")

	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleUser}, u.Roles)
	store.AssertExpectations(t)
}

func TestFindOrCreateByPhone_ExistingUserKeepsRoles(t *testing.T) {
	existing := &domain.User{
		PhoneNumber: "+15550000001",
		UserID:      "ulid-original",
		Roles:       []string{domain.RoleUser, domain.RoleAdmin},
		Enable:      true,
	}
	store := &mockStore{}
	// The store resolves the conditional-put race by returning the stored row.
	store.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(existing, nil)

	svc := NewService(store)
	u, err := svc.FindOrCreateByPhone(context.Background(), "+15550000001")

	require.NoError(t, err)
	assert.Equal(t, "ulid-original", u.UserID)
	assert.True(t, u.HasRole(domain.RoleAdmin))
}

func TestGet_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "+10000000000").Return(nil, errors.New("no item"))

	svc := NewService(store)
	_, err := svc.Get(context.Background(), "+10000000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_ClampsLimit(t *testing.T) {
	store := &mockStore{}
	store.On("ScanPage", mock.Anything, int32(20), "").Return([]domain.User{}, "", nil).Twice()

	svc := NewService(store)
	_, _, err := svc.List(context.Background(), 0, "")
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), 500, "")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAssignRoles(t *testing.T) {
	store := &mockStore{}
	u := &domain.User{PhoneNumber: "+15550000001", Roles: []string{domain.RoleUser}}
	updated := &domain.User{PhoneNumber: "+15550000001", Roles: []string{domain.RoleUser, domain.RoleAdmin}}
	store.On("Get", mock.Anything, "+15550000001").Return(u, nil).Once()
	store.On("Update", mock.Anything, "+15550000001", map[string]interface{}{
		fieldRoles: []string{domain.RoleUser, domain.RoleAdmin},
	}).Return(nil)
	store.On("Get", mock.Anything, "+15550000001").Return(updated, nil).Once()

	svc := NewService(store)
	out, err := svc.AssignRoles(context.Background(), "+15550000001", []string{domain.RoleUser, domain.RoleAdmin})

	require.NoError(t, err)
	assert.True(t, out.HasRole(domain.RoleAdmin))
	store.AssertExpectations(t)
}

func TestAssignRoles_EmptySet(t *testing.T) {
	svc := NewService(&mockStore{})
	_, err := svc.AssignRoles(context.Background(), "+15550000001", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestDelete_UnknownUser(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "+10000000000").Return(nil, errors.New("no item"))

	svc := NewService(store)
	err := svc.Delete(context.Background(), "+10000000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	store.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestDelete_SoftDeletes(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "+15550000001").Return(&domain.User{PhoneNumber: "+15550000001"}, nil)
	store.On("SoftDelete", mock.Anything, "+15550000001").Return(nil)

	svc := NewService(store)
	require.NoError(t, svc.Delete(context.Background(), "+15550000001"))
	store.AssertExpectations(t)
}
