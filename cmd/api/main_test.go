package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("ATOMIZER_MIN_VOTES", "0")
		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config")
	})

	t.Run("run store disabled", func(t *testing.T) {
		t.Setenv("REDIS_ENABLED", "false")
		t.Setenv("DB_ENABLED", "false")
		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REDIS_ENABLED")
	})
}
