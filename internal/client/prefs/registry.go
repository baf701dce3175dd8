// Package prefs stores the CLI's local preferences and session in sqlite.
// Only keys declared in a Registry can be read, written or purged, so
// cleaning up a namespace never depends on matching key prefixes.
package prefs

import (
	"fmt"
	"sort"

	"github.com/centrinote/centrinote/internal/common"
)

type Namespace string

const (
	NamespacePreferences Namespace = "preferences"
	NamespaceSession     Namespace = "session"
)

// Key is one registered preference. Name is the full dotted name.
type Key struct {
	Name      string
	Namespace Namespace
	Default   string
}

// Registered key names.
const (
	KeyLanguage     = "preferences.language"
	KeyDarkMode     = "preferences.dark_mode"
	KeyAccessToken  = "session.access_token"
	KeyRefreshToken = "session.refresh_token"
	KeyUserID       = "session.user_id"
	KeyExpiresAt    = "session.expires_at"
)

// ErrUnknownKey is returned for names that were never registered.
var ErrUnknownKey = fmt.Errorf("%w: unknown preference key", common.ErrorValidation)

// Registry is an immutable set of keys.
type Registry struct {
	keys map[string]Key
}

// NewRegistry builds a registry. Duplicate names are a programming error
// and panic.
func NewRegistry(keys ...Key) *Registry {
	r := &Registry{keys: make(map[string]Key, len(keys))}
	for _, k := range keys {
		if _, dup := r.keys[k.Name]; dup {
			panic(fmt.Sprintf("prefs: duplicate key %q", k.Name))
		}
		r.keys[k.Name] = k
	}
	return r
}

// DefaultRegistry returns the keys the CLI uses.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Key{Name: KeyLanguage, Namespace: NamespacePreferences, Default: "en"},
		Key{Name: KeyDarkMode, Namespace: NamespacePreferences, Default: "false"},
		Key{Name: KeyAccessToken, Namespace: NamespaceSession},
		Key{Name: KeyRefreshToken, Namespace: NamespaceSession},
		Key{Name: KeyUserID, Namespace: NamespaceSession},
		Key{Name: KeyExpiresAt, Namespace: NamespaceSession},
	)
}

// Lookup returns the key registered under name.
func (r *Registry) Lookup(name string) (Key, error) {
	k, ok := r.keys[name]
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// Keys returns all keys sorted by name.
func (r *Registry) Keys() []Key {
	out := make([]Key, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InNamespace returns the keys of ns sorted by name.
func (r *Registry) InNamespace(ns Namespace) []Key {
	var out []Key
	for _, k := range r.Keys() {
		if k.Namespace == ns {
			out = append(out, k)
		}
	}
	return out
}
