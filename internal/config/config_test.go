package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should override defaults from file", func(t *testing.T) {
		path := writeConfig(t, "budget:\n  weeks: 6\n  total: 25000\nsession:\n  idleminutes: 30\n")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, expense.BudgetSettings{BudgetWeeks: 6, TotalBudget: 25000}, cfg.Budget.Settings())
		assert.Equal(t, 30*time.Minute, cfg.Session.StoreConfig().IdleTimeout)
		assert.Equal(t, 1000, cfg.Session.StoreConfig().MaxSessions)
		assert.Equal(t, ":8181", cfg.Server.Address)
	})

	t.Run("should override file from environment", func(t *testing.T) {
		path := writeConfig(t, "budget:\n  weeks: 6\n")
		t.Setenv("BUDGETWISE_BUDGET_WEEKS", "12")
		t.Setenv("BUDGETWISE_SERVER_ADDRESS", ":9090")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Budget.Weeks)
		assert.Equal(t, ":9090", cfg.Server.Address)
	})

	t.Run("should reject invalid budget defaults", func(t *testing.T) {
		path := writeConfig(t, "budget:\n  weeks: 0\n")

		_, err := Load(path)

		assert.Error(t, err)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "budget: [weeks\n")

		_, err := Load(path)

		assert.Error(t, err)
	})
}

func TestServer_Timeouts(t *testing.T) {
	read, write, idle := Defaults().Server.Timeouts()

	assert.Equal(t, 15*time.Second, read)
	assert.Equal(t, 15*time.Second, write)
	assert.Equal(t, time.Minute, idle)
}
