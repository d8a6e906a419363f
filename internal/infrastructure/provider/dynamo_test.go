package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockCodeStore struct{ mock.Mock }

func (m *mockCodeStore) Put(ctx context.Context, v *domain.Verification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockCodeStore) Get(ctx context.Context, phoneNumber, verType string) (*domain.Verification, error) {
	args := m.Called(ctx, phoneNumber, verType)
	if v, _ := args.Get(0).(*domain.Verification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCodeStore) Delete(ctx context.Context, phoneNumber, verType string) error {
	return m.Called(ctx, phoneNumber, verType).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func hashOf(t *testing.T, code string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestDynamoAdapter_RequestCode_StoresHashAndSendsCode(t *testing.T) {
	cs := &mockCodeStore{}
	sms := &mockSMS{}

	var stored *domain.Verification
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Verification")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Verification) }).
		Return(nil)
	var sent string
	sms.On("SendSMS", mock.Anything, "+15550000001", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(nil)

	a := NewDynamoAdapter(cs, sms, 15*time.Minute)
	require.NoError(t, a.RequestCode(context.Background(), "+15550000001"))

	require.NotNil(t, stored)
	assert.Equal(t, domain.VerificationOTP, stored.Type)
	assert.Greater(t, stored.ExpiresAt, time.Now().Unix())

	// The SMS carries the plain code, the store only its hash.
	code := sent[strings.LastIndex(sent, " ")+1:]
	assert.Len(t, code, 6)
	assert.NotContains(t, stored.Code, code)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Code), []byte(code)))
}

func TestDynamoAdapter_Verify_HappyPath_ConsumesCode(t *testing.T) {
	cs := &mockCodeStore{}
	cs.On("Get", mock.Anything, "+15550000001", domain.VerificationOTP).Return(&domain.Verification{
		PhoneNumber: "+15550000001",
		Type:        domain.VerificationOTP,
		Code:        hashOf(t, "123456"),
		ExpiresAt:   time.Now().Add(10 * time.Minute).Unix(),
	}, nil)
	cs.On("Delete", mock.Anything, "+15550000001", domain.VerificationOTP).Return(nil)

	a := NewDynamoAdapter(cs, &mockSMS{}, 15*time.Minute)
	res, err := a.Verify(context.Background(), "123456", map[string]any{MetaPhoneNumber: "+15550000001"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "+15550000001", res.PhoneNumber)
	cs.AssertCalled(t, "Delete", mock.Anything, "+15550000001", domain.VerificationOTP)
}

func TestDynamoAdapter_Verify_WrongCode(t *testing.T) {
	cs := &mockCodeStore{}
	cs.On("Get", mock.Anything, "+15550000001", domain.VerificationOTP).Return(&domain.Verification{
		Code:      hashOf(t, "123456"),
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}, nil)

	a := NewDynamoAdapter(cs, &mockSMS{}, 15*time.Minute)
	res, err := a.Verify(context.Background(), "999999", map[string]any{MetaPhoneNumber: "+15550000001"})

	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDynamoAdapter_Verify_ExpiredCode(t *testing.T) {
	cs := &mockCodeStore{}
	cs.On("Get", mock.Anything, "+15550000001", domain.VerificationOTP).Return(&domain.Verification{
		Code:      hashOf(t, "123456"),
		ExpiresAt: time.Now().Add(-1 * time.Minute).Unix(),
	}, nil)

	a := NewDynamoAdapter(cs, &mockSMS{}, 15*time.Minute)
	res, err := a.Verify(context.Background(), "123456", map[string]any{MetaPhoneNumber: "+15550000001"})

	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDynamoAdapter_Verify_NoCodeRequested(t *testing.T) {
	cs := &mockCodeStore{}
	cs.On("Get", mock.Anything, "+15550000001", domain.VerificationOTP).Return(nil, domain.ErrNotFound)

	a := NewDynamoAdapter(cs, &mockSMS{}, 15*time.Minute)
	res, err := a.Verify(context.Background(), "123456", map[string]any{MetaPhoneNumber: "+15550000001"})

	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDynamoAdapter_Verify_MissingPhoneMeta(t *testing.T) {
	a := NewDynamoAdapter(&mockCodeStore{}, &mockSMS{}, 15*time.Minute)

	res, err := a.Verify(context.Background(), "123456", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDynamoAdapter_Verify_StoreFault_IsUnavailable(t *testing.T) {
	cs := &mockCodeStore{}
	cs.On("Get", mock.Anything, "+15550000001", domain.VerificationOTP).
		Return(nil, errors.New("connection reset"))

	a := NewDynamoAdapter(cs, &mockSMS{}, 15*time.Minute)
	_, err := a.Verify(context.Background(), "123456", map[string]any{MetaPhoneNumber: "+15550000001"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}
