package provider

import (
	"fmt"

	"github.com/go-otp-auth/internal/domain"
)

// Registry resolves a client-supplied provider key to exactly one adapter.
// It is built once at startup from the finished adapter set and is read-only
// afterward, so concurrent lookups need no locking.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds the key→adapter table. Two adapters reporting the same
// key is a configuration error and aborts construction; nothing is silently
// shadowed.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		key := a.Key()
		if key == "" {
			return nil, fmt.Errorf("provider adapter %T reports an empty key", a)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("duplicate otp provider key %q", key)
		}
		m[key] = a
	}
	return &Registry{adapters: m}, nil
}

// Resolve returns the adapter registered under key. The match is exact and
// case-sensitive; a miss is domain.ErrUnknownProvider, never a default adapter.
func (r *Registry) Resolve(key string) (Adapter, error) {
	a, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, domain.ErrUnknownProvider)
	}
	return a, nil
}

// Keys returns the registered provider keys, for startup logging.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		keys = append(keys, k)
	}
	return keys
}
