package event_bus

import (
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/google/uuid"
)

const (
	ExpenseItemAdded      EventType = "expense.item.added"
	ExpenseItemUpdated    EventType = "expense.item.updated"
	ExpenseItemRemoved    EventType = "expense.item.removed"
	ExpenseItemsCleared   EventType = "expense.items.cleared"
	BudgetSettingsChanged EventType = "budget.settings.updated"
)

type ExpenseItemChanged struct {
	SessionId uuid.UUID
	Item      expense.ExpenseItem
	// Previous is set for updates only.
	Previous *expense.ExpenseItem
}

type ExpenseItemDeleted struct {
	SessionId uuid.UUID
	Item      expense.ExpenseItem
}

type ExpenseItemsReset struct {
	SessionId uuid.UUID
}

type BudgetSettingsUpdated struct {
	SessionId uuid.UUID
	Settings  expense.BudgetSettings
}
