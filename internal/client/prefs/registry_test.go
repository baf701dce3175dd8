package prefs

import (
	"testing"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	k, err := r.Lookup(KeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, NamespacePreferences, k.Namespace)
	assert.Equal(t, "en", k.Default)

	names := func(keys []Key) []string {
		var out []string
		for _, k := range keys {
			out = append(out, k.Name)
		}
		return out
	}
	assert.Equal(t, []string{KeyAccessToken, KeyExpiresAt, KeyRefreshToken, KeyUserID}, names(r.InNamespace(NamespaceSession)))
	assert.Equal(t, []string{KeyDarkMode, KeyLanguage}, names(r.InNamespace(NamespacePreferences)))
	assert.Len(t, r.Keys(), 6)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := DefaultRegistry().Lookup("session.something_else")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(Key{Name: "a.b"}, Key{Name: "a.b"})
	})
}
