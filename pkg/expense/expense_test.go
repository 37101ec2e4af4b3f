package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseItem_Validate(t *testing.T) {
	weekly := FrequencyWeekly
	four := 4
	tests := []struct {
		name    string
		item    ExpenseItem
		wantErr error
	}{
		{name: "valid one-time item", item: NewOneTime("Rent", 100, CategoryRent)},
		{name: "valid recurring item", item: NewRecurring("Bus", 2, FrequencyDaily, 4, CategoryTransportation)},
		{
			name:    "blank name",
			item:    NewOneTime("   ", 100, CategoryRent),
			wantErr: ErrInvalidItem,
		},
		{
			name:    "negative cost",
			item:    NewOneTime("Rent", -1, CategoryRent),
			wantErr: ErrInvalidItem,
		},
		{
			name:    "unknown category",
			item:    NewOneTime("Rent", 100, Category("housing")),
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "one-time item with recurrence fields",
			item:    ExpenseItem{Name: "Rent", Cost: 1, Type: ItemTypeOneTime, Frequency: &weekly, DurationWeeks: &four, Category: CategoryRent},
			wantErr: ErrInvalidItem,
		},
		{
			name:    "recurring item without duration",
			item:    ExpenseItem{Name: "Bus", Cost: 1, Type: ItemTypeRecurring, Frequency: &weekly, Category: CategoryTransportation},
			wantErr: ErrInvalidItem,
		},
		{
			name:    "recurring item with unknown frequency",
			item:    NewRecurring("Bus", 1, Frequency("hourly"), 4, CategoryTransportation),
			wantErr: ErrUnknownFrequency,
		},
		{
			name:    "recurring item with zero duration",
			item:    NewRecurring("Bus", 1, FrequencyDaily, 0, CategoryTransportation),
			wantErr: ErrInvalidItem,
		},
		{
			name:    "unknown type",
			item:    ExpenseItem{Name: "Bus", Cost: 1, Type: "monthly", Category: CategoryTransportation},
			wantErr: ErrUnknownItemType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpenseItem_Copy(t *testing.T) {
	// given
	original := NewRecurring("Bus", 2, FrequencyDaily, 4, CategoryTransportation)

	// when
	copied := original.Copy()
	*copied.DurationWeeks = 10
	*copied.Frequency = FrequencyWeekly

	// then
	assert.Equal(t, 4, *original.DurationWeeks)
	assert.Equal(t, FrequencyDaily, *original.Frequency)
}

func TestParse(t *testing.T) {
	t.Run("should accept variants regardless of case and padding", func(t *testing.T) {
		itemType, err := ParseItemType(" Recurring ")
		require.NoError(t, err)
		assert.Equal(t, ItemTypeRecurring, itemType)

		frequency, err := ParseFrequency("WORKDAYS")
		require.NoError(t, err)
		assert.Equal(t, FrequencyWorkdays, frequency)

		category, err := ParseCategory("Entertainment")
		require.NoError(t, err)
		assert.Equal(t, CategoryEntertainment, category)
	})

	t.Run("should reject unknown variants", func(t *testing.T) {
		_, err := ParseItemType("monthly")
		assert.ErrorIs(t, err, ErrUnknownItemType)

		_, err = ParseFrequency("")
		assert.ErrorIs(t, err, ErrUnknownFrequency)

		_, err = ParseCategory("utilities")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}

func TestBudgetSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
	assert.NoError(t, BudgetSettings{BudgetWeeks: 1, TotalBudget: 100000}.Validate())
	assert.Error(t, BudgetSettings{BudgetWeeks: 0, TotalBudget: 100}.Validate())
	assert.Error(t, BudgetSettings{BudgetWeeks: 4, TotalBudget: -1}.Validate())
}
