package recerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	t.Run("full error string", func(t *testing.T) {
		err := New("resolve", CodeAmbiguous, "lineage is not unique").
			WithDetails(map[string]any{"lineage": "Eukaryota>Metazoa"}).
			WithCause(errors.New("two matches"))

		s := err.Error()
		assert.Contains(t, s, "[resolve]")
		assert.Contains(t, s, "AMBIGUOUS")
		assert.Contains(t, s, "lineage is not unique")
		assert.Contains(t, s, "lineage=Eukaryota>Metazoa")
		assert.Contains(t, s, "two matches")
	})

	t.Run("details are sorted by key", func(t *testing.T) {
		err := New("gsdi", CodeInvalidState, "bad link").
			WithDetails(map[string]any{"b": 2, "a": 1})
		assert.Contains(t, err.Error(), "(a=1, b=2)")
	})

	t.Run("minimal error", func(t *testing.T) {
		err := New("", "", "plain")
		assert.Equal(t, "plain", err.Error())
	})
}

func TestNewf(t *testing.T) {
	err := Newf("mapper", CodeDuplicateSpeciesKey, "taxonomy %q is not unique", "MOUSE")
	assert.Equal(t, `taxonomy "MOUSE" is not unique`, err.Message)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := New("service", CodeNetworkUnavailable, "search failed").WithCause(cause)

	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("job failed: %w", err)
	var re *Error
	require.ErrorAs(t, wrapped, &re)
	assert.Equal(t, CodeNetworkUnavailable, re.Code)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("ancestral", CodeNotFound, "lineage not found"))

	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeAmbiguous))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := New("resolve", CodeAmbiguous, "x")
	assert.True(t, errors.Is(err, &Error{Code: CodeAmbiguous}))
	assert.False(t, errors.Is(err, &Error{Code: CodeNotFound}))
}
