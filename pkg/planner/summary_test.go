package planner

import (
	"testing"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary(t *testing.T) {
	t.Run("should flag an over-budget plan", func(t *testing.T) {
		items := []expense.ExpenseItem{expense.NewRecurring("Lunch", 100, expense.FrequencyDaily, 4, expense.CategoryFood)}

		summary, err := BuildSummary(expense.BudgetSettings{BudgetWeeks: 4, TotalBudget: 1000}, items)

		require.NoError(t, err)
		assert.Equal(t, 2800.0, summary.TotalExpenses)
		assert.Equal(t, -1800.0, summary.RemainingBudget)
		assert.True(t, summary.OverBudget)
	})

	t.Run("should keep totals and breakdowns consistent", func(t *testing.T) {
		items := []expense.ExpenseItem{
			expense.NewRecurring("Lunch", 100, expense.FrequencyDaily, 4, expense.CategoryFood),
			expense.NewOneTime("Concert", 900, expense.CategoryEntertainment),
			expense.NewRecurring("Snacks", 20, expense.FrequencyWorkdays, 2, expense.CategoryFood),
		}

		summary, err := BuildSummary(defaults, items)

		require.NoError(t, err)
		require.Len(t, summary.Items, 3)
		assert.Equal(t, 200.0, summary.Items[2].EffectiveCost)
		assert.Equal(t, summary.TotalExpenses, summary.ByCategory.Total())
		assert.Equal(t, summary.TotalExpenses, summary.ByType.Total())
	})

	t.Run("should surface configuration errors", func(t *testing.T) {
		items := []expense.ExpenseItem{expense.NewRecurring("Gym", 10, expense.Frequency("monthly"), 4, expense.CategoryOther)}

		_, err := BuildSummary(defaults, items)

		assert.ErrorIs(t, err, expense.ErrUnknownFrequency)
	})
}
