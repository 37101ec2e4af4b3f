package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/planner"
	"github.com/pterm/pterm"
)

const maxBarLength = 30

// TerminalSummaryRenderer renders a summary as pterm tables with bar columns for the breakdowns.
type TerminalSummaryRenderer struct{}

func NewTerminalSummaryRenderer() *TerminalSummaryRenderer {
	return &TerminalSummaryRenderer{}
}

func (r *TerminalSummaryRenderer) RenderSummary(summary planner.Summary) (string, error) {
	var sb strings.Builder

	items, err := renderItems(summary.Items)
	if err != nil {
		return "", err
	}
	sb.WriteString(pterm.DefaultSection.Sprint("Planned items"))
	sb.WriteString(items)

	totals, err := renderTotals(summary)
	if err != nil {
		return "", err
	}
	sb.WriteString(pterm.DefaultSection.Sprint("Budget"))
	sb.WriteString(totals)

	for _, b := range []struct {
		title     string
		breakdown expense.Breakdown
	}{
		{"Expenses by category", summary.ByCategory},
		{"Expenses by type", summary.ByType},
	} {
		sb.WriteString(pterm.DefaultSection.Sprint(b.title))
		if len(b.breakdown) == 0 {
			sb.WriteString(pterm.Info.Sprintln("No data"))
			continue
		}
		rendered, err := renderBreakdown(b.breakdown)
		if err != nil {
			return "", err
		}
		sb.WriteString(rendered)
	}
	return sb.String(), nil
}

func renderItems(items []planner.ItemCost) (string, error) {
	if len(items) == 0 {
		return pterm.Info.Sprintln("No items planned"), nil
	}
	tableData := pterm.TableData{
		{"Item", "Type", "Category", "Cost", "Frequency", "Weeks", "Effective cost"},
	}
	for _, cost := range items {
		frequency, weeks := "", ""
		if cost.Item.Frequency != nil {
			frequency = string(*cost.Item.Frequency)
		}
		if cost.Item.DurationWeeks != nil {
			weeks = strconv.Itoa(*cost.Item.DurationWeeks)
		}
		tableData = append(tableData, []string{
			cost.Item.Name,
			string(cost.Item.Type),
			string(cost.Item.Category),
			formatAmount(cost.Item.Cost),
			frequency,
			weeks,
			formatAmount(cost.EffectiveCost),
		})
	}
	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithRightAlignment().
		WithData(tableData)
	return table.Srender()
}

func renderTotals(summary planner.Summary) (string, error) {
	remaining := pterm.FgGreen.Sprint(formatAmount(summary.RemainingBudget))
	if summary.OverBudget {
		remaining = pterm.FgRed.Sprint(formatAmount(summary.RemainingBudget))
	}
	tableData := pterm.TableData{
		{"Budget period", fmt.Sprintf("%d weeks", summary.Settings.BudgetWeeks)},
		{"Total budget", formatAmount(summary.Settings.TotalBudget)},
		{"Total expenses", formatAmount(summary.TotalExpenses)},
		{"Remaining", remaining},
	}
	return pterm.DefaultTable.WithBoxed().WithData(tableData).Srender()
}

func renderBreakdown(breakdown expense.Breakdown) (string, error) {
	total := breakdown.Total()
	maxValue := 0.0
	for _, entry := range breakdown {
		if entry.Value > maxValue {
			maxValue = entry.Value
		}
	}

	tableData := pterm.TableData{{"Name", "Amount", "Share", ""}}
	for _, entry := range breakdown {
		share := 0.0
		if total > 0 {
			share = entry.Value / total * 100
		}
		tableData = append(tableData, []string{
			entry.Name,
			formatAmount(entry.Value),
			fmt.Sprintf("%.1f%%", share),
			pterm.FgBlue.Sprint(bar(entry.Value, maxValue)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
}

func bar(value, maxValue float64) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	length := int(value / maxValue * maxBarLength)
	if length == 0 {
		length = 1
	}
	return strings.Repeat("█", length)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
