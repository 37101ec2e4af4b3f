package app

import (
	"github.com/budgetwise/budgetwise/internal/config"
	"github.com/budgetwise/budgetwise/internal/event_bus"
	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/planner"
	"github.com/budgetwise/budgetwise/pkg/session"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	SessionStore *session.Store

	PlannerService     *planner.ServiceImpl
	CsvSummaryRenderer *planner.CsvSummaryRendererImpl
	PlannerHandler     *planner.Handler

	AuditLog *AuditLog
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, clock utils.Clock) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = clock
	deps.EventBus = event_bus.NewEventBus()

	deps.SessionStore = session.NewStore(deps.Clock, cfg.Session.StoreConfig())

	deps.PlannerService = planner.NewPlannerService(deps.SessionStore, deps.EventBus, cfg.Budget.Settings())
	deps.CsvSummaryRenderer = planner.NewCsvSummaryRenderer()
	deps.PlannerHandler = planner.NewPlannerHandler(deps.PlannerService, deps.CsvSummaryRenderer)

	deps.AuditLog = NewAuditLog()
	deps.AuditLog.Subscribe(deps.EventBus)

	return deps
}
