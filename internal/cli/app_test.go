package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/planner"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := NewCLIApp()
	cli.clock = newClock()
	var out bytes.Buffer
	cli.rootCmd.SetOut(&out)
	cli.rootCmd.SetErr(&out)
	cli.rootCmd.SetArgs(append(args, "--config-file", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cli.Execute()
	return out.String(), err
}

func TestSummarizeCommand(t *testing.T) {
	pterm.DisableColor()
	path := writePlan(t, "plan.yaml", samplePlan)

	t.Run("should print tables", func(t *testing.T) {
		out, err := runCLI(t, "summarize", path)

		require.NoError(t, err)
		assert.Contains(t, out, "Transport")
		assert.Contains(t, out, "40000.00")
		assert.Contains(t, out, "70000.00")
		assert.Contains(t, out, "Expenses by category")
		assert.Contains(t, out, "transportation")
	})

	t.Run("should print csv", func(t *testing.T) {
		out, err := runCLI(t, "summarize", path, "--csv")

		require.NoError(t, err)
		assert.Contains(t, out, "Total expenses,70000.00\n")
		assert.Contains(t, out, "Remaining,30000.00\n")
	})

	t.Run("should require a plan file", func(t *testing.T) {
		_, err := runCLI(t, "summarize")

		assert.Error(t, err)
	})

	t.Run("should fail on invalid plan", func(t *testing.T) {
		bad := writePlan(t, "bad.yaml", "items:\n  - {name: '', cost: 1, type: one-time, category: rent}\n")

		_, err := runCLI(t, "summarize", bad)

		assert.ErrorContains(t, err, "item 1")
	})
}

func TestTerminalSummaryRenderer(t *testing.T) {
	pterm.DisableColor()

	t.Run("should report empty plans", func(t *testing.T) {
		summary, err := planner.BuildSummary(expense.DefaultSettings(), nil)
		require.NoError(t, err)

		out, err := NewTerminalSummaryRenderer().RenderSummary(summary)

		require.NoError(t, err)
		assert.Contains(t, out, "No items planned")
		assert.Contains(t, out, "No data")
	})

	t.Run("should scale bars to the largest entry", func(t *testing.T) {
		assert.Equal(t, maxBarLength, len([]rune(bar(40000, 40000))))
		assert.Equal(t, 22, len([]rune(bar(30000, 40000))))
		assert.Equal(t, 1, len([]rune(bar(1, 40000))))
		assert.Equal(t, "", bar(0, 40000))
	})
}
