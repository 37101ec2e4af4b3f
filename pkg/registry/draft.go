package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/budgetwise/budgetwise/pkg/expense"
)

var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the draft field that was rejected. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Draft carries the raw values of the item form. Numbers are kept as text so that parsing
// failures are reported here and never reach the aggregation.
type Draft struct {
	Name          string
	Cost          string
	Type          string
	Frequency     string
	DurationWeeks string
	Category      string
}

// Resolve validates the draft and turns it into an item without an id. An empty duration of a
// recurring draft falls back to the budget period of the given settings.
func (d Draft) Resolve(settings expense.BudgetSettings) (expense.ExpenseItem, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return expense.ExpenseItem{}, invalid("name", "is required")
	}

	cost, err := parseCost(d.Cost)
	if err != nil {
		return expense.ExpenseItem{}, err
	}

	if strings.TrimSpace(d.Type) == "" {
		return expense.ExpenseItem{}, invalid("type", "is required")
	}
	itemType, err := expense.ParseItemType(d.Type)
	if err != nil {
		return expense.ExpenseItem{}, invalid("type", err.Error())
	}

	if strings.TrimSpace(d.Category) == "" {
		return expense.ExpenseItem{}, invalid("category", "is required")
	}
	category, err := expense.ParseCategory(d.Category)
	if err != nil {
		return expense.ExpenseItem{}, invalid("category", err.Error())
	}

	if itemType == expense.ItemTypeOneTime {
		return expense.NewOneTime(name, cost, category), nil
	}

	if strings.TrimSpace(d.Frequency) == "" {
		return expense.ExpenseItem{}, invalid("frequency", "is required for recurring items")
	}
	frequency, err := expense.ParseFrequency(d.Frequency)
	if err != nil {
		return expense.ExpenseItem{}, invalid("frequency", err.Error())
	}

	duration := settings.BudgetWeeks
	if strings.TrimSpace(d.DurationWeeks) != "" {
		duration, err = strconv.Atoi(strings.TrimSpace(d.DurationWeeks))
		if err != nil {
			return expense.ExpenseItem{}, invalid("durationWeeks", "must be a whole number of weeks")
		}
	}
	if duration <= 0 {
		return expense.ExpenseItem{}, invalid("durationWeeks", "must be a positive number of weeks")
	}

	item := expense.NewRecurring(name, cost, frequency, duration, category)
	if _, err := expense.EffectiveCost(item); err != nil {
		return expense.ExpenseItem{}, invalid("cost", "is too large for the recurrence")
	}
	return item, nil
}

func parseCost(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid("cost", "is required")
	}
	// Decimal comma is accepted as typed in many locales.
	s = strings.ReplaceAll(s, ",", ".")
	cost, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, invalid("cost", "must be a number")
	}
	if cost < 0 {
		return 0, invalid("cost", "must not be negative")
	}
	return cost, nil
}

// DraftFromItem pre-populates an edit form with the values of an existing item.
func DraftFromItem(item expense.ExpenseItem) Draft {
	draft := Draft{
		Name:     item.Name,
		Cost:     strconv.FormatFloat(item.Cost, 'f', -1, 64),
		Type:     string(item.Type),
		Category: string(item.Category),
	}
	if item.Frequency != nil {
		draft.Frequency = string(*item.Frequency)
	}
	if item.DurationWeeks != nil {
		draft.DurationWeeks = strconv.Itoa(*item.DurationWeeks)
	}
	return draft
}
