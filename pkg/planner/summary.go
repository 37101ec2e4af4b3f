package planner

import (
	"github.com/budgetwise/budgetwise/pkg/expense"
)

type ItemCost struct {
	Item          expense.ExpenseItem
	EffectiveCost float64
}

// Summary is everything the planner view shows next to the item list. It is rebuilt from the
// items on every read.
type Summary struct {
	Settings        expense.BudgetSettings
	Items           []ItemCost
	TotalExpenses   float64
	RemainingBudget float64
	OverBudget      bool
	ByCategory      expense.Breakdown
	ByType          expense.Breakdown
}

func BuildSummary(settings expense.BudgetSettings, items []expense.ExpenseItem) (Summary, error) {
	costs, err := itemCosts(items)
	if err != nil {
		return Summary{}, err
	}
	total, err := expense.TotalExpenses(items)
	if err != nil {
		return Summary{}, err
	}
	byCategory, err := expense.GroupByCategory(items)
	if err != nil {
		return Summary{}, err
	}
	byType, err := expense.GroupByType(items)
	if err != nil {
		return Summary{}, err
	}
	remaining := expense.RemainingBudget(settings.TotalBudget, total)
	return Summary{
		Settings:        settings,
		Items:           costs,
		TotalExpenses:   total,
		RemainingBudget: remaining,
		OverBudget:      remaining < 0,
		ByCategory:      byCategory,
		ByType:          byType,
	}, nil
}

func itemCosts(items []expense.ExpenseItem) ([]ItemCost, error) {
	costs := make([]ItemCost, 0, len(items))
	for _, item := range items {
		cost, err := expense.EffectiveCost(item)
		if err != nil {
			return nil, err
		}
		costs = append(costs, ItemCost{Item: item, EffectiveCost: cost})
	}
	return costs, nil
}
