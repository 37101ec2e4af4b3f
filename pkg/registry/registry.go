package registry

import (
	"errors"
	"fmt"

	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/expense"
	log "github.com/sirupsen/logrus"
)

var ErrItemNotFound = errors.New("expense item not found")

type Mode string

const (
	ModeAdding  Mode = "adding"
	ModeEditing Mode = "editing"
)

type ChangeKind string

const (
	ItemAdded       ChangeKind = "item.added"
	ItemUpdated     ChangeKind = "item.updated"
	ItemRemoved     ChangeKind = "item.removed"
	SettingsUpdated ChangeKind = "settings.updated"
	Cleared         ChangeKind = "cleared"
)

// Change describes a mutation that has already been applied to the registry.
type Change struct {
	Kind     ChangeKind
	Item     expense.ExpenseItem
	Previous *expense.ExpenseItem
	Settings expense.BudgetSettings
}

type ChangeListener func(Change)

// Registry holds the ordered expense items and budget settings of one planning session.
// It has a single owner and is not safe for concurrent use; callers serialize access.
//
// The edit mode is a two state machine: Adding (no edit target) and Editing(id). Add commits
// an insert in Adding and a full replace of the target in Editing, after which the registry
// is back in Adding.
type Registry struct {
	settings   expense.BudgetSettings
	items      []expense.ExpenseItem
	editTarget *int64
	ids        *IdGenerator
	listeners  []ChangeListener
}

func NewRegistry(settings expense.BudgetSettings, clock utils.Clock) (*Registry, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return &Registry{
		settings: settings,
		items:    []expense.ExpenseItem{},
		ids:      NewIdGenerator(clock),
	}, nil
}

func (r *Registry) OnChange(listener ChangeListener) {
	r.listeners = append(r.listeners, listener)
}

func (r *Registry) Settings() expense.BudgetSettings {
	return r.settings
}

func (r *Registry) UpdateSettings(settings expense.BudgetSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r.settings = settings
	r.notify(Change{Kind: SettingsUpdated, Settings: settings})
	return nil
}

// Items returns a snapshot in insertion order.
func (r *Registry) Items() []expense.ExpenseItem {
	items := make([]expense.ExpenseItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item.Copy())
	}
	return items
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) Get(id int64) (expense.ExpenseItem, error) {
	idx := r.indexOf(id)
	if idx == -1 {
		return expense.ExpenseItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	return r.items[idx].Copy(), nil
}

func (r *Registry) Mode() Mode {
	if r.editTarget == nil {
		return ModeAdding
	}
	return ModeEditing
}

func (r *Registry) EditTarget() (int64, bool) {
	if r.editTarget == nil {
		return 0, false
	}
	return *r.editTarget, true
}

// Add inserts the draft as a new item, or replaces the item being edited when an edit is in
// progress. Invalid drafts leave the registry untouched, including its edit mode.
func (r *Registry) Add(draft Draft) (expense.ExpenseItem, error) {
	item, err := draft.Resolve(r.settings)
	if err != nil {
		log.Debugf("rejected draft %q: %v", draft.Name, err)
		return expense.ExpenseItem{}, err
	}

	if r.editTarget != nil {
		target := *r.editTarget
		idx := r.indexOf(target)
		if idx == -1 {
			r.editTarget = nil
			return expense.ExpenseItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, target)
		}
		if err := r.checkTotal(item, idx); err != nil {
			return expense.ExpenseItem{}, err
		}
		r.editTarget = nil
		previous := r.items[idx]
		item.Id = target
		r.items[idx] = item
		r.notify(Change{Kind: ItemUpdated, Item: item.Copy(), Previous: &previous})
		return item.Copy(), nil
	}

	if err := r.checkTotal(item, -1); err != nil {
		return expense.ExpenseItem{}, err
	}
	item.Id = r.ids.Next(func(id int64) bool { return r.indexOf(id) != -1 })
	r.items = append(r.items, item)
	r.notify(Change{Kind: ItemAdded, Item: item.Copy()})
	return item.Copy(), nil
}

// Remove deletes the item with the given id. Removing an absent id is a no-op.
// If the removed item was being edited, the registry returns to adding mode.
func (r *Registry) Remove(id int64) bool {
	idx := r.indexOf(id)
	if idx == -1 {
		return false
	}
	removed := r.items[idx]
	r.items = append(r.items[:idx:idx], r.items[idx+1:]...)
	if r.editTarget != nil && *r.editTarget == id {
		r.editTarget = nil
	}
	r.notify(Change{Kind: ItemRemoved, Item: removed})
	return true
}

// BeginEdit switches to editing mode for the item and returns a copy of it for pre-populating a form.
func (r *Registry) BeginEdit(id int64) (expense.ExpenseItem, error) {
	idx := r.indexOf(id)
	if idx == -1 {
		return expense.ExpenseItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	target := id
	r.editTarget = &target
	return r.items[idx].Copy(), nil
}

func (r *Registry) CancelEdit() {
	r.editTarget = nil
}

// Reset removes every item and leaves editing mode. Settings are kept.
func (r *Registry) Reset() {
	r.items = []expense.ExpenseItem{}
	r.editTarget = nil
	r.notify(Change{Kind: Cleared, Settings: r.settings})
}

// checkTotal rejects an item that would make the total expenses non-finite. replacing is the index
// of the item it replaces, or -1 for an insert.
func (r *Registry) checkTotal(item expense.ExpenseItem, replacing int) error {
	candidate := make([]expense.ExpenseItem, 0, len(r.items)+1)
	for idx, existing := range r.items {
		if idx != replacing {
			candidate = append(candidate, existing)
		}
	}
	candidate = append(candidate, item)
	if _, err := expense.TotalExpenses(candidate); err != nil {
		log.Debugf("rejected draft %q: %v", item.Name, err)
		return invalid("cost", "makes the total expenses too large")
	}
	return nil
}

func (r *Registry) indexOf(id int64) int {
	for idx, item := range r.items {
		if item.Id == id {
			return idx
		}
	}
	return -1
}

func (r *Registry) notify(change Change) {
	for _, listener := range r.listeners {
		listener(change)
	}
}
