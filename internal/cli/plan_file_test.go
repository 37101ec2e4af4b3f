package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `settings:
  budgetWeeks: 4
  totalBudget: 100000
items:
  - name: Transport
    cost: 2000
    type: recurring
    frequency: workdays
    durationWeeks: 4
    category: transportation
  - name: Rent
    cost: "30000"
    type: one-time
    category: rent
`

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newClock() *utils.MockClock {
	return &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func TestLoadPlanFile(t *testing.T) {
	t.Run("should load plan", func(t *testing.T) {
		plan, err := LoadPlanFile(writePlan(t, "plan.yaml", samplePlan))

		require.NoError(t, err)
		require.NotNil(t, plan.Settings)
		assert.Equal(t, 100000.0, plan.Settings.TotalBudget)
		require.Len(t, plan.Items, 2)
		assert.Equal(t, "2000", plan.Items[0].Cost)
		assert.Equal(t, "4", plan.Items[0].DurationWeeks)
		assert.Equal(t, "", plan.Items[1].Frequency)
	})

	t.Run("should reject other formats", func(t *testing.T) {
		_, err := LoadPlanFile(writePlan(t, "plan.json", "{}"))

		assert.ErrorContains(t, err, "unsupported plan file format")
	})

	t.Run("should reject unknown fields", func(t *testing.T) {
		_, err := ParsePlan([]byte("items:\n  - name: Rent\n    price: 10\n"))

		assert.Error(t, err)
	})

	t.Run("should accept empty file", func(t *testing.T) {
		plan, err := ParsePlan([]byte(""))

		require.NoError(t, err)
		assert.Nil(t, plan.Settings)
		assert.Empty(t, plan.Items)
	})
}

func TestPlanFile_Build(t *testing.T) {
	t.Run("should replay items in order", func(t *testing.T) {
		plan, err := ParsePlan([]byte(samplePlan))
		require.NoError(t, err)

		r, err := plan.Build(expense.DefaultSettings(), newClock())

		require.NoError(t, err)
		items := r.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "Transport", items[0].Name)
		assert.Equal(t, "Rent", items[1].Name)
		assert.Equal(t, 100000.0, r.Settings().TotalBudget)
	})

	t.Run("should fall back to defaults without settings", func(t *testing.T) {
		plan, err := ParsePlan([]byte("items:\n  - {name: Bus, cost: 3, type: recurring, frequency: daily, category: transportation}\n"))
		require.NoError(t, err)

		r, err := plan.Build(expense.BudgetSettings{BudgetWeeks: 2, TotalBudget: 50}, newClock())

		require.NoError(t, err)
		items := r.Items()
		require.Len(t, items, 1)
		require.NotNil(t, items[0].DurationWeeks)
		assert.Equal(t, 2, *items[0].DurationWeeks)
	})

	t.Run("should name the failing item", func(t *testing.T) {
		plan, err := ParsePlan([]byte("items:\n  - {name: Rent, cost: lots, type: one-time, category: rent}\n"))
		require.NoError(t, err)

		_, err = plan.Build(expense.DefaultSettings(), newClock())

		assert.ErrorIs(t, err, registry.ErrInvalidInput)
		assert.ErrorContains(t, err, "item 1 (Rent)")
	})

	t.Run("should reject invalid settings", func(t *testing.T) {
		plan := PlanFile{Settings: &PlanSettings{BudgetWeeks: 0}}

		_, err := plan.Build(expense.DefaultSettings(), newClock())

		assert.ErrorContains(t, err, "invalid plan settings")
	})
}
