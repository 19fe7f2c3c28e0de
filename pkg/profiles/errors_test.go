package profiles_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/pkg/profiles"
)

func TestAsError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, profiles.AsError(nil))

	plain := errors.New("boom")
	got := profiles.AsError(plain)
	require.NotNil(t, got)
	assert.Equal(t, profiles.KindReadError, got.Kind)
	assert.Equal(t, "boom", got.Message)
	require.ErrorIs(t, got, plain)
	require.ErrorIs(t, got, profiles.ErrReadError)

	pErr := &profiles.Error{Kind: profiles.KindMalformedYAML, Message: "bad"}
	wrapped := fmt.Errorf("query: %w", pErr)
	assert.Same(t, pErr, profiles.AsError(wrapped))
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	tcs := map[profiles.Kind]error{
		profiles.KindProfileNotFound:   profiles.ErrProfileNotFound,
		profiles.KindMalformedYAML:     profiles.ErrMalformedYAML,
		profiles.KindNoProfilesDefined: profiles.ErrNoProfilesDefined,
		profiles.KindInvalidFilter:     profiles.ErrInvalidFilter,
		profiles.KindReadError:         profiles.ErrReadError,
	}

	for kind, sentinel := range tcs {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			err := &profiles.Error{Kind: kind, Message: "x"}
			require.ErrorIs(t, err, sentinel)

			for other, otherSentinel := range tcs {
				if other != kind {
					assert.NotErrorIs(t, err, otherSentinel)
				}
			}
		})
	}
}
