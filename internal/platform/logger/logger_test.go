package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"development", "production", "prod", ""} {
		t.Run(mode, func(t *testing.T) {
			log, err := New(mode)
			require.NoError(t, err)
			require.NotNil(t, log)
			log.Info("hello", "mode", mode)
		})
	}
}

func TestSanitizeKVs(t *testing.T) {
	t.Run("redacts sensitive keys", func(t *testing.T) {
		got := sanitizeKVs([]interface{}{"api_key", "abc123", "query", "milk"})
		assert.Equal(t, []interface{}{"api_key", "[REDACTED]", "query", "milk"}, got)
	})

	t.Run("redacts api key inside urls", func(t *testing.T) {
		got := sanitizeKVs([]interface{}{"url", "https://api.nal.usda.gov/fdc/v1/food/1?api_key=SECRET&x=1"})
		assert.Equal(t, "https://api.nal.usda.gov/fdc/v1/food/1?api_key=[REDACTED]&x=1", got[1])
	})

	t.Run("redacts api key inside errors", func(t *testing.T) {
		err := errors.New(`Get "https://host/v1/foods/search?api_key=SECRET": timeout`)
		got := sanitizeKVs([]interface{}{"error", err})
		assert.NotContains(t, got[1], "SECRET")
	})

	t.Run("keeps odd trailing key", func(t *testing.T) {
		got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
		assert.Equal(t, []interface{}{"a", 1, "dangling"}, got)
	})
}

func TestNop(t *testing.T) {
	log := Nop()
	log.With("component", "test").Warn("ignored", "k", "v")
	log.Sync()
}
