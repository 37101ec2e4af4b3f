package app

import (
	"github.com/budgetwise/budgetwise/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// AuditLog writes one log line per registry change published on the bus.
type AuditLog struct {
	logger log.FieldLogger
}

func NewAuditLog() *AuditLog {
	return &AuditLog{logger: log.StandardLogger()}
}

func (a *AuditLog) Subscribe(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ExpenseItemAdded, func(e event_bus.EventT[event_bus.ExpenseItemChanged]) error {
		a.logger.WithFields(log.Fields{
			"session":  e.Data.SessionId,
			"item":     e.Data.Item.Id,
			"name":     e.Data.Item.Name,
			"category": e.Data.Item.Category,
		}).Info("expense item added")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseItemUpdated, func(e event_bus.EventT[event_bus.ExpenseItemChanged]) error {
		fields := log.Fields{
			"session": e.Data.SessionId,
			"item":    e.Data.Item.Id,
			"name":    e.Data.Item.Name,
		}
		if e.Data.Previous != nil {
			fields["previousName"] = e.Data.Previous.Name
		}
		a.logger.WithFields(fields).Info("expense item updated")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseItemRemoved, func(e event_bus.EventT[event_bus.ExpenseItemDeleted]) error {
		a.logger.WithFields(log.Fields{
			"session": e.Data.SessionId,
			"item":    e.Data.Item.Id,
		}).Info("expense item removed")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseItemsCleared, func(e event_bus.EventT[event_bus.ExpenseItemsReset]) error {
		a.logger.WithField("session", e.Data.SessionId).Info("expense items cleared")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.BudgetSettingsChanged, func(e event_bus.EventT[event_bus.BudgetSettingsUpdated]) error {
		a.logger.WithFields(log.Fields{
			"session":     e.Data.SessionId,
			"budgetWeeks": e.Data.Settings.BudgetWeeks,
			"totalBudget": e.Data.Settings.TotalBudget,
		}).Info("budget settings updated")
		return nil
	})
}
