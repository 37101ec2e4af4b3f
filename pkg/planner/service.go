package planner

import (
	"context"
	"fmt"

	"github.com/budgetwise/budgetwise/internal/event_bus"
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"github.com/budgetwise/budgetwise/pkg/session"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EditState struct {
	Mode registry.Mode
	// Item is the item being edited, nil in adding mode.
	Item *expense.ExpenseItem
}

type Service interface {
	StartSession(ctx context.Context, settings *expense.BudgetSettings) (uuid.UUID, expense.BudgetSettings, error)
	EndSession(ctx context.Context) (bool, error)
	GetSettings(ctx context.Context) (expense.BudgetSettings, error)
	UpdateSettings(ctx context.Context, settings expense.BudgetSettings) (expense.BudgetSettings, error)
	ListItems(ctx context.Context) ([]ItemCost, error)
	// AddItem inserts the draft, or replaces the edited item when an edit is in progress.
	// The returned flag tells which of the two happened.
	AddItem(ctx context.Context, draft registry.Draft) (expense.ExpenseItem, bool, error)
	RemoveItem(ctx context.Context, id int64) (bool, error)
	ResetItems(ctx context.Context) error
	BeginEdit(ctx context.Context, id int64) (expense.ExpenseItem, error)
	CancelEdit(ctx context.Context) error
	GetEditState(ctx context.Context) (EditState, error)
	GetSummary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	store    *session.Store
	eventBus *event_bus.EventBus
	defaults expense.BudgetSettings
}

func NewPlannerService(store *session.Store, eventBus *event_bus.EventBus, defaults expense.BudgetSettings) *ServiceImpl {
	s := &ServiceImpl{store: store, eventBus: eventBus, defaults: defaults}
	store.OnCreate(s.publishChanges)
	return s
}

// publishChanges forwards every applied registry mutation of a session to the event bus.
func (s *ServiceImpl) publishChanges(sess *session.Session, r *registry.Registry) {
	sessionId := sess.Id
	r.OnChange(func(change registry.Change) {
		var event event_bus.Event
		ctx := context.Background()
		switch change.Kind {
		case registry.ItemAdded:
			event = event_bus.NewEvent(ctx, event_bus.ExpenseItemAdded, event_bus.ExpenseItemChanged{SessionId: sessionId, Item: change.Item})
		case registry.ItemUpdated:
			event = event_bus.NewEvent(ctx, event_bus.ExpenseItemUpdated, event_bus.ExpenseItemChanged{SessionId: sessionId, Item: change.Item, Previous: change.Previous})
		case registry.ItemRemoved:
			event = event_bus.NewEvent(ctx, event_bus.ExpenseItemRemoved, event_bus.ExpenseItemDeleted{SessionId: sessionId, Item: change.Item})
		case registry.Cleared:
			event = event_bus.NewEvent(ctx, event_bus.ExpenseItemsCleared, event_bus.ExpenseItemsReset{SessionId: sessionId})
		case registry.SettingsUpdated:
			event = event_bus.NewEvent(ctx, event_bus.BudgetSettingsChanged, event_bus.BudgetSettingsUpdated{SessionId: sessionId, Settings: change.Settings})
		default:
			return
		}
		// The registry has already applied the change; a failing subscriber does not undo it.
		if err := s.eventBus.Publish(event); err != nil {
			log.Errorf("failed to publish %s event: %v", event.Type, err)
		}
	})
}

func (s *ServiceImpl) StartSession(ctx context.Context, settings *expense.BudgetSettings) (uuid.UUID, expense.BudgetSettings, error) {
	initial := s.defaults
	if settings != nil {
		initial = *settings
	}
	sess, err := s.store.Create(initial)
	if err != nil {
		return uuid.Nil, expense.BudgetSettings{}, err
	}
	return sess.Id, initial, nil
}

func (s *ServiceImpl) EndSession(ctx context.Context) (bool, error) {
	sess, err := currentSession(ctx)
	if err != nil {
		return false, err
	}
	return s.store.Delete(sess.Id), nil
}

func (s *ServiceImpl) GetSettings(ctx context.Context) (expense.BudgetSettings, error) {
	var settings expense.BudgetSettings
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		settings = r.Settings()
		return nil
	})
	return settings, err
}

func (s *ServiceImpl) UpdateSettings(ctx context.Context, settings expense.BudgetSettings) (expense.BudgetSettings, error) {
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		return r.UpdateSettings(settings)
	})
	if err != nil {
		log.Warnf("settings update rejected: %v", err)
		return expense.BudgetSettings{}, err
	}
	return settings, nil
}

func (s *ServiceImpl) ListItems(ctx context.Context) ([]ItemCost, error) {
	var costs []ItemCost
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		var err error
		costs, err = itemCosts(r.Items())
		return err
	})
	return costs, err
}

func (s *ServiceImpl) AddItem(ctx context.Context, draft registry.Draft) (expense.ExpenseItem, bool, error) {
	var item expense.ExpenseItem
	var replaced bool
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		replaced = r.Mode() == registry.ModeEditing
		var err error
		item, err = r.Add(draft)
		return err
	})
	if err != nil {
		log.Warnf("item not saved: %v", err)
		return expense.ExpenseItem{}, false, err
	}
	return item, replaced, nil
}

func (s *ServiceImpl) RemoveItem(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		removed = r.Remove(id)
		return nil
	})
	if err == nil && !removed {
		log.Debugf("item %d not removed, it does not exist", id)
	}
	return removed, err
}

func (s *ServiceImpl) ResetItems(ctx context.Context) error {
	return s.withRegistry(ctx, func(r *registry.Registry) error {
		r.Reset()
		return nil
	})
}

func (s *ServiceImpl) BeginEdit(ctx context.Context, id int64) (expense.ExpenseItem, error) {
	var item expense.ExpenseItem
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		var err error
		item, err = r.BeginEdit(id)
		return err
	})
	return item, err
}

func (s *ServiceImpl) CancelEdit(ctx context.Context) error {
	return s.withRegistry(ctx, func(r *registry.Registry) error {
		r.CancelEdit()
		return nil
	})
}

func (s *ServiceImpl) GetEditState(ctx context.Context) (EditState, error) {
	state := EditState{Mode: registry.ModeAdding}
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		id, editing := r.EditTarget()
		if !editing {
			return nil
		}
		item, err := r.Get(id)
		if err != nil {
			return err
		}
		state = EditState{Mode: registry.ModeEditing, Item: &item}
		return nil
	})
	return state, err
}

func (s *ServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	var summary Summary
	err := s.withRegistry(ctx, func(r *registry.Registry) error {
		var err error
		summary, err = BuildSummary(r.Settings(), r.Items())
		return err
	})
	if err != nil {
		log.Errorf("failed to build summary: %v", err)
	}
	return summary, err
}

func (s *ServiceImpl) withRegistry(ctx context.Context, fn func(r *registry.Registry) error) error {
	sess, err := currentSession(ctx)
	if err != nil {
		return err
	}
	return sess.Do(fn)
}

func currentSession(ctx context.Context) (*session.Session, error) {
	sess, err := session.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	return sess, nil
}
