package expense

import (
	"errors"
	"fmt"
	"strings"
)

type ItemType string

const (
	ItemTypeRecurring ItemType = "recurring"
	ItemTypeOneTime   ItemType = "one-time"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyWorkdays Frequency = "workdays"
)

type Category string

const (
	CategoryFood           Category = "food"
	CategoryRent           Category = "rent"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryOther          Category = "other"
)

var ErrUnknownFrequency = errors.New("unknown frequency")
var ErrUnknownItemType = errors.New("unknown item type")
var ErrUnknownCategory = errors.New("unknown category")
var ErrInvalidItem = errors.New("invalid expense item")

// ErrCostOverflow is returned when an effective cost or a sum of them is not a finite number.
var ErrCostOverflow = fmt.Errorf("%w: cost out of range", ErrInvalidItem)

type ExpenseItem struct {
	Id   int64
	Name string
	// Cost is the price of a single occurrence for recurring items and the whole price for one-time items.
	Cost float64
	Type ItemType
	// Frequency and DurationWeeks are set only for recurring items.
	Frequency     *Frequency
	DurationWeeks *int
	Category      Category
}

// BudgetSettings are shared by the whole planning session. BudgetWeeks is also the default
// duration of newly added recurring items.
type BudgetSettings struct {
	BudgetWeeks int
	TotalBudget float64
}

func DefaultSettings() BudgetSettings {
	return BudgetSettings{BudgetWeeks: 4, TotalBudget: 0}
}

func (s BudgetSettings) Validate() error {
	if s.BudgetWeeks <= 0 {
		return fmt.Errorf("budget period must be a positive number of weeks, got %d", s.BudgetWeeks)
	}
	if s.TotalBudget < 0 {
		return fmt.Errorf("total budget must not be negative, got %v", s.TotalBudget)
	}
	return nil
}

// Validate checks the structural invariants of an item: recurrence fields are present if and only if
// the item is recurring.
func (i ExpenseItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidItem)
	}
	if i.Cost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidItem)
	}
	if !i.Category.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidItem, ErrUnknownCategory, i.Category)
	}
	switch i.Type {
	case ItemTypeOneTime:
		if i.Frequency != nil || i.DurationWeeks != nil {
			return fmt.Errorf("%w: one-time item must not have frequency or duration", ErrInvalidItem)
		}
	case ItemTypeRecurring:
		if i.Frequency == nil || i.DurationWeeks == nil {
			return fmt.Errorf("%w: recurring item requires frequency and duration", ErrInvalidItem)
		}
		if !i.Frequency.IsValid() {
			return fmt.Errorf("%w: %w %q", ErrInvalidItem, ErrUnknownFrequency, *i.Frequency)
		}
		if *i.DurationWeeks <= 0 {
			return fmt.Errorf("%w: duration must be a positive number of weeks", ErrInvalidItem)
		}
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidItem, ErrUnknownItemType, i.Type)
	}
	return nil
}

// Copy returns an item that shares no pointers with the receiver.
func (i ExpenseItem) Copy() ExpenseItem {
	c := i
	if i.Frequency != nil {
		f := *i.Frequency
		c.Frequency = &f
	}
	if i.DurationWeeks != nil {
		d := *i.DurationWeeks
		c.DurationWeeks = &d
	}
	return c
}

func NewOneTime(name string, cost float64, category Category) ExpenseItem {
	return ExpenseItem{Name: name, Cost: cost, Type: ItemTypeOneTime, Category: category}
}

func NewRecurring(name string, cost float64, frequency Frequency, durationWeeks int, category Category) ExpenseItem {
	return ExpenseItem{
		Name:          name,
		Cost:          cost,
		Type:          ItemTypeRecurring,
		Frequency:     &frequency,
		DurationWeeks: &durationWeeks,
		Category:      category,
	}
}

func AllItemTypes() []ItemType {
	return []ItemType{ItemTypeRecurring, ItemTypeOneTime}
}

func AllFrequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWorkdays, FrequencyWeekly}
}

func AllCategories() []Category {
	return []Category{CategoryFood, CategoryRent, CategoryTransportation, CategoryEntertainment, CategoryOther}
}

func (t ItemType) IsValid() bool {
	return t == ItemTypeRecurring || t == ItemTypeOneTime
}

func (f Frequency) IsValid() bool {
	_, err := OccurrencesPerWeek(f)
	return err == nil
}

func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func ParseItemType(s string) (ItemType, error) {
	t := ItemType(normalize(s))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
	}
	return t, nil
}

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(normalize(s))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
	return f, nil
}

func ParseCategory(s string) (Category, error) {
	c := Category(normalize(s))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
