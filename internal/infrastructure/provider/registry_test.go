package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAdapter struct {
	key    string
	result *VerifyResult
}

func (a *staticAdapter) Key() string { return a.key }
func (a *staticAdapter) Verify(context.Context, string, map[string]any) (*VerifyResult, error) {
	return a.result, nil
}

func TestRegistry_ResolvesEachRegisteredKey(t *testing.T) {
	a := &staticAdapter{key: "A"}
	b := &staticAdapter{key: "B"}
	reg, err := NewRegistry(a, b)
	require.NoError(t, err)

	got, err := reg.Resolve("A")
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = reg.Resolve("B")
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestRegistry_UnknownKey(t *testing.T) {
	reg, err := NewRegistry(&staticAdapter{key: "A"})
	require.NoError(t, err)

	_, err = reg.Resolve("NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownProvider))
}

func TestRegistry_CaseSensitive(t *testing.T) {
	reg, err := NewRegistry(&staticAdapter{key: "Mock"})
	require.NoError(t, err)

	_, err = reg.Resolve("mock")
	assert.True(t, errors.Is(err, domain.ErrUnknownProvider))
}

func TestRegistry_DuplicateKey_FailsConstruction(t *testing.T) {
	_, err := NewRegistry(&staticAdapter{key: "A"}, &staticAdapter{key: "A"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "duplicate")
}

func TestRegistry_EmptyKey_FailsConstruction(t *testing.T) {
	_, err := NewRegistry(&staticAdapter{key: ""})
	assert.Error(t, err)
}

func TestStubAdapters_AlwaysSucceedWithIdentity(t *testing.T) {
	for _, a := range []Adapter{NewFirebaseAdapter(), NewTwilioAdapter()} {
		res, err := a.Verify(context.Background(), "anything", nil)
		require.NoError(t, err, a.Key())
		assert.True(t, res.Success, a.Key())
		assert.NotEmpty(t, res.PhoneNumber, a.Key())
	}
}
