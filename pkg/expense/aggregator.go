package expense

import (
	"fmt"
	"math"
)

// OccurrencesPerWeek returns the recurrence multiplier of a frequency. Unknown frequencies are an error,
// never a zero multiplier.
func OccurrencesPerWeek(f Frequency) (int, error) {
	switch f {
	case FrequencyDaily:
		return 7, nil
	case FrequencyWorkdays:
		return 5, nil
	case FrequencyWeekly:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFrequency, f)
	}
}

// EffectiveCost is the total value of an item over its whole recurrence span, or its flat cost
// when the item is one-time.
func EffectiveCost(item ExpenseItem) (float64, error) {
	switch item.Type {
	case ItemTypeOneTime:
		if !isFinite(item.Cost) {
			return 0, fmt.Errorf("item %d (%s): %w", item.Id, item.Name, ErrCostOverflow)
		}
		return item.Cost, nil
	case ItemTypeRecurring:
		if item.Frequency == nil {
			return 0, fmt.Errorf("item %d (%s): %w: missing", item.Id, item.Name, ErrUnknownFrequency)
		}
		if item.DurationWeeks == nil {
			return 0, fmt.Errorf("item %d (%s): %w: missing duration", item.Id, item.Name, ErrInvalidItem)
		}
		perWeek, err := OccurrencesPerWeek(*item.Frequency)
		if err != nil {
			return 0, fmt.Errorf("item %d (%s): %w", item.Id, item.Name, err)
		}
		cost := item.Cost * float64(perWeek) * float64(*item.DurationWeeks)
		if !isFinite(cost) {
			return 0, fmt.Errorf("item %d (%s): %w", item.Id, item.Name, ErrCostOverflow)
		}
		return cost, nil
	default:
		return 0, fmt.Errorf("item %d (%s): %w: %q", item.Id, item.Name, ErrUnknownItemType, item.Type)
	}
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func TotalExpenses(items []ExpenseItem) (float64, error) {
	total := 0.0
	for _, item := range items {
		cost, err := EffectiveCost(item)
		if err != nil {
			return 0, err
		}
		total += cost
		if !isFinite(total) {
			return 0, fmt.Errorf("total expenses: %w", ErrCostOverflow)
		}
	}
	return total, nil
}

// RemainingBudget may be negative, which means the plan is over budget.
func RemainingBudget(totalBudget float64, totalExpenses float64) float64 {
	return totalBudget - totalExpenses
}

type BreakdownEntry struct {
	Name  string
	Value float64
}

// Breakdown is ordered by the first occurrence of each key in the scanned items.
type Breakdown []BreakdownEntry

func (b Breakdown) Total() float64 {
	total := 0.0
	for _, entry := range b {
		total += entry.Value
	}
	return total
}

func (b Breakdown) AsMap() map[string]float64 {
	m := make(map[string]float64, len(b))
	for _, entry := range b {
		m[entry.Name] = entry.Value
	}
	return m
}

func (b Breakdown) Get(name string) (float64, bool) {
	for _, entry := range b {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return 0, false
}

func GroupByCategory(items []ExpenseItem) (Breakdown, error) {
	return groupBy(items, func(item ExpenseItem) string { return string(item.Category) })
}

func GroupByType(items []ExpenseItem) (Breakdown, error) {
	return groupBy(items, func(item ExpenseItem) string { return string(item.Type) })
}

func groupBy(items []ExpenseItem, key func(ExpenseItem) string) (Breakdown, error) {
	breakdown := Breakdown{}
	positions := make(map[string]int)
	for _, item := range items {
		cost, err := EffectiveCost(item)
		if err != nil {
			return nil, err
		}
		k := key(item)
		idx, seen := positions[k]
		if !seen {
			positions[k] = len(breakdown)
			breakdown = append(breakdown, BreakdownEntry{Name: k, Value: cost})
			continue
		}
		breakdown[idx].Value += cost
		if !isFinite(breakdown[idx].Value) {
			return nil, fmt.Errorf("breakdown entry %s: %w", k, ErrCostOverflow)
		}
	}
	return breakdown, nil
}
