package planner

import (
	"context"
	"sync"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"github.com/google/uuid"
)

var _ Service = (*ServiceStub)(nil)

// ServiceStub returns canned values. A non-nil err is returned by every operation.
type ServiceStub struct {
	mu       sync.RWMutex
	settings expense.BudgetSettings
	items    []ItemCost
	summary  Summary
	err      error
}

func NewServiceStub() *ServiceStub {
	return &ServiceStub{settings: expense.DefaultSettings()}
}

func (s *ServiceStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *ServiceStub) SetItems(items []ItemCost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *ServiceStub) SetSummary(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

func (s *ServiceStub) StartSession(ctx context.Context, settings *expense.BudgetSettings) (uuid.UUID, expense.BudgetSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return uuid.Nil, expense.BudgetSettings{}, s.err
	}
	if settings != nil {
		return uuid.New(), *settings, nil
	}
	return uuid.New(), s.settings, nil
}

func (s *ServiceStub) EndSession(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err == nil, s.err
}

func (s *ServiceStub) GetSettings(ctx context.Context) (expense.BudgetSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.err
}

func (s *ServiceStub) UpdateSettings(ctx context.Context, settings expense.BudgetSettings) (expense.BudgetSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return expense.BudgetSettings{}, s.err
	}
	s.settings = settings
	return settings, nil
}

func (s *ServiceStub) ListItems(ctx context.Context) ([]ItemCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]ItemCost, len(s.items))
	copy(result, s.items)
	return result, nil
}

func (s *ServiceStub) AddItem(ctx context.Context, draft registry.Draft) (expense.ExpenseItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return expense.ExpenseItem{}, false, s.err
	}
	item, err := draft.Resolve(s.settings)
	if err != nil {
		return expense.ExpenseItem{}, false, err
	}
	item.Id = int64(len(s.items) + 1)
	cost, err := expense.EffectiveCost(item)
	if err != nil {
		return expense.ExpenseItem{}, false, err
	}
	s.items = append(s.items, ItemCost{Item: item, EffectiveCost: cost})
	return item, false, nil
}

func (s *ServiceStub) RemoveItem(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for i, cost := range s.items {
		if cost.Item.Id == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *ServiceStub) ResetItems(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = nil
	return nil
}

func (s *ServiceStub) BeginEdit(ctx context.Context, id int64) (expense.ExpenseItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return expense.ExpenseItem{}, s.err
	}
	for _, cost := range s.items {
		if cost.Item.Id == id {
			return cost.Item, nil
		}
	}
	return expense.ExpenseItem{}, registry.ErrItemNotFound
}

func (s *ServiceStub) CancelEdit(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ServiceStub) GetEditState(ctx context.Context) (EditState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return EditState{}, s.err
	}
	return EditState{Mode: registry.ModeAdding}, nil
}

func (s *ServiceStub) GetSummary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary, s.err
}
