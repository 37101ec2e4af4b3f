package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/budgetwise/budgetwise/internal/rest"
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"github.com/budgetwise/budgetwise/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type SessionDTO struct {
	Id       string      `json:"id"`
	Settings SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	BudgetWeeks int     `json:"budgetWeeks"`
	TotalBudget float64 `json:"totalBudget"`
}

type ItemDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	Type          string  `json:"type"`
	Frequency     string  `json:"frequency,omitempty"`
	DurationWeeks *int    `json:"durationWeeks,omitempty"`
	Category      string  `json:"category"`
	EffectiveCost float64 `json:"effectiveCost"`
}

// DraftDTO mirrors the item form. Every field may be sent as a JSON string or number.
type DraftDTO struct {
	Name          FormValue `json:"name"`
	Cost          FormValue `json:"cost"`
	Type          FormValue `json:"type"`
	Frequency     FormValue `json:"frequency,omitempty"`
	DurationWeeks FormValue `json:"durationWeeks,omitempty"`
	Category      FormValue `json:"category"`
}

type EditStateDTO struct {
	Mode   string    `json:"mode"`
	ItemId *int64    `json:"itemId,omitempty"`
	Draft  *DraftDTO `json:"draft,omitempty"`
}

type BreakdownEntryDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type SummaryDTO struct {
	Settings        SettingsDTO         `json:"settings"`
	Items           []ItemDTO           `json:"items"`
	TotalExpenses   float64             `json:"totalExpenses"`
	RemainingBudget float64             `json:"remainingBudget"`
	OverBudget      bool                `json:"overBudget"`
	ByCategory      []BreakdownEntryDTO `json:"byCategory"`
	ByType          []BreakdownEntryDTO `json:"byType"`
}

type OptionsDTO struct {
	Types       []string `json:"types"`
	Frequencies []string `json:"frequencies"`
	Categories  []string `json:"categories"`
}

// FormValue is a form field as typed by the user. It accepts JSON strings, numbers and null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("form value must be a string or a number")
	}
	*v = FormValue(n.String())
	return nil
}

type Handler struct {
	service  Service
	renderer SummaryRenderer
}

func NewPlannerHandler(service Service, renderer SummaryRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// StartSession godoc
// @Summary Start a planning session
// @Description Create an empty planning session. Settings are optional and default to the configured budget.
// @Tags Session
// @Accept json
// @Produce json
// @Param settings body SettingsDTO false "Initial budget settings"
// @Success 201 {object} SessionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid settings"
// @Failure 503 {object} rest.ErrorResponse "Too many sessions"
// @Router /api/session [post]
func (handler *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	log.Debug("Starting planning session")
	var settings *expense.BudgetSettings
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		var settingsDTO SettingsDTO
		if err := json.Unmarshal(body, &settingsDTO); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
			return
		}
		s := DTOToSettings(settingsDTO)
		settings = &s
	}

	id, initial, err := handler.service.StartSession(r.Context(), settings)
	if err != nil {
		if errors.Is(err, session.ErrTooManySessions) {
			rest.WriteError(w, http.StatusServiceUnavailable, err.Error(), "")
			return
		}
		handler.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionDTO{Id: id.String(), Settings: SettingsToDTO(initial)})
}

// EndSession godoc
// @Summary End the current planning session
// @Tags Session
// @Success 204 "No Content"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/session [delete]
// @Security XSessionId
func (handler *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	log.Debug("Ending planning session")
	if _, err := handler.service.EndSession(r.Context()); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings godoc
// @Summary Get budget settings
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/settings [get]
// @Security XSessionId
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := handler.service.GetSettings(r.Context())
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsToDTO(settings))
}

// UpdateSettings godoc
// @Summary Update budget settings
// @Description Set the budget period and the total budget
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Budget settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid settings"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/settings [put]
// @Security XSessionId
func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating budget settings")
	var settingsDTO SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&settingsDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	settings, err := handler.service.UpdateSettings(r.Context(), DTOToSettings(settingsDTO))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsToDTO(settings))
}

// ListItems godoc
// @Summary List planned items
// @Description Items in insertion order with their effective cost
// @Tags Item
// @Produce json
// @Success 200 {array} ItemDTO
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/items [get]
// @Security XSessionId
func (handler *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing planned items")
	costs, err := handler.service.ListItems(r.Context())
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	itemsDTO := make([]ItemDTO, 0, len(costs))
	for _, cost := range costs {
		itemsDTO = append(itemsDTO, ItemToDTO(cost.Item, cost.EffectiveCost))
	}
	writeJSON(w, http.StatusOK, itemsDTO)
}

// AddItem godoc
// @Summary Add or save an item
// @Description Adds a new item, or replaces the item being edited when an edit is in progress
// @Tags Item
// @Accept json
// @Produce json
// @Param item body DraftDTO true "Item form"
// @Success 200 {object} ItemDTO "Edited item replaced"
// @Success 201 {object} ItemDTO "Item added"
// @Failure 400 {object} rest.ErrorResponse "Invalid input"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/items [post]
// @Security XSessionId
func (handler *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving item")
	var draftDTO DraftDTO
	if err := json.NewDecoder(r.Body).Decode(&draftDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	item, replaced, err := handler.service.AddItem(r.Context(), DTOToDraft(draftDTO))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	cost, err := expense.EffectiveCost(item)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, ItemToDTO(item, cost))
}

// DeleteItem godoc
// @Summary Delete an item
// @Description Removing an item that does not exist succeeds as well
// @Tags Item
// @Param itemId path int true "Item ID"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Bad Request"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/items/{itemId} [delete]
// @Security XSessionId
func (handler *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemId, ok := itemIdFromPath(w, r)
	if !ok {
		return
	}
	if _, err := handler.service.RemoveItem(r.Context(), itemId); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetItems godoc
// @Summary Delete all items
// @Tags Item
// @Success 204 "No Content"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/items [delete]
// @Security XSessionId
func (handler *Handler) ResetItems(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.ResetItems(r.Context()); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BeginEdit godoc
// @Summary Start editing an item
// @Description Switches the session to editing mode and returns the form values of the item
// @Tags Edit
// @Produce json
// @Param itemId path int true "Item ID"
// @Success 200 {object} EditStateDTO
// @Failure 400 {object} rest.ErrorResponse "Bad Request"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Failure 404 {object} rest.ErrorResponse "Item not found"
// @Router /api/items/{itemId}/edit [post]
// @Security XSessionId
func (handler *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	itemId, ok := itemIdFromPath(w, r)
	if !ok {
		return
	}
	item, err := handler.service.BeginEdit(r.Context(), itemId)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EditStateToDTO(EditState{Mode: registry.ModeEditing, Item: &item}))
}

// GetEditState godoc
// @Summary Get the edit mode
// @Tags Edit
// @Produce json
// @Success 200 {object} EditStateDTO
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/edit [get]
// @Security XSessionId
func (handler *Handler) GetEditState(w http.ResponseWriter, r *http.Request) {
	state, err := handler.service.GetEditState(r.Context())
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EditStateToDTO(state))
}

// CancelEdit godoc
// @Summary Cancel editing
// @Tags Edit
// @Success 204 "No Content"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/edit [delete]
// @Security XSessionId
func (handler *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.CancelEdit(r.Context()); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Get totals and breakdowns
// @Description Returns CSV when requested with Accept: text/csv
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {object} SummaryDTO
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Failure 422 {object} rest.ErrorResponse "Item configuration error"
// @Router /api/summary [get]
// @Security XSessionId
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.service.GetSummary(r.Context())
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.renderer.RenderSummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv summary: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// GetOptions godoc
// @Summary List form options
// @Description Item types, frequencies and categories accepted by the item form
// @Tags Item
// @Produce json
// @Success 200 {object} OptionsDTO
// @Router /api/options [get]
func (handler *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	options := OptionsDTO{}
	for _, t := range expense.AllItemTypes() {
		options.Types = append(options.Types, string(t))
	}
	for _, f := range expense.AllFrequencies() {
		options.Frequencies = append(options.Frequencies, string(f))
	}
	for _, c := range expense.AllCategories() {
		options.Categories = append(options.Categories, string(c))
	}
	writeJSON(w, http.StatusOK, options)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *registry.ValidationError
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionNotFound):
		rest.WriteError(w, http.StatusForbidden, "session not found", err.Error())
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, "invalid input", validationErr.Field+": "+validationErr.Reason)
	case errors.Is(err, registry.ErrInvalidInput):
		rest.WriteError(w, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, registry.ErrItemNotFound):
		rest.WriteError(w, http.StatusNotFound, "item not found", err.Error())
	case errors.Is(err, expense.ErrUnknownFrequency), errors.Is(err, expense.ErrUnknownItemType),
		errors.Is(err, expense.ErrInvalidItem), errors.Is(err, expense.ErrUnknownCategory):
		rest.WriteError(w, http.StatusUnprocessableEntity, "item configuration error", err.Error())
	default:
		log.Errorf("unexpected planner error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
	}
}

func itemIdFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	itemIdString := mux.Vars(r)["itemId"]
	itemId, err := strconv.ParseInt(itemIdString, 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid item id", err.Error())
		return 0, false
	}
	return itemId, true
}

// writeJSON encodes before writing the status, so an encoding failure becomes a 500.
func writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to encode response", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func SettingsToDTO(settings expense.BudgetSettings) SettingsDTO {
	return SettingsDTO{BudgetWeeks: settings.BudgetWeeks, TotalBudget: settings.TotalBudget}
}

func DTOToSettings(settingsDTO SettingsDTO) expense.BudgetSettings {
	return expense.BudgetSettings{BudgetWeeks: settingsDTO.BudgetWeeks, TotalBudget: settingsDTO.TotalBudget}
}

func ItemToDTO(item expense.ExpenseItem, effectiveCost float64) ItemDTO {
	dto := ItemDTO{
		ID:            item.Id,
		Name:          item.Name,
		Cost:          item.Cost,
		Type:          string(item.Type),
		Category:      string(item.Category),
		EffectiveCost: effectiveCost,
	}
	if item.Frequency != nil {
		dto.Frequency = string(*item.Frequency)
	}
	if item.DurationWeeks != nil {
		weeks := *item.DurationWeeks
		dto.DurationWeeks = &weeks
	}
	return dto
}

func DTOToDraft(draftDTO DraftDTO) registry.Draft {
	return registry.Draft{
		Name:          string(draftDTO.Name),
		Cost:          string(draftDTO.Cost),
		Type:          string(draftDTO.Type),
		Frequency:     string(draftDTO.Frequency),
		DurationWeeks: string(draftDTO.DurationWeeks),
		Category:      string(draftDTO.Category),
	}
}

func DraftToDTO(draft registry.Draft) DraftDTO {
	return DraftDTO{
		Name:          FormValue(draft.Name),
		Cost:          FormValue(draft.Cost),
		Type:          FormValue(draft.Type),
		Frequency:     FormValue(draft.Frequency),
		DurationWeeks: FormValue(draft.DurationWeeks),
		Category:      FormValue(draft.Category),
	}
}

func EditStateToDTO(state EditState) EditStateDTO {
	dto := EditStateDTO{Mode: string(state.Mode)}
	if state.Item != nil {
		id := state.Item.Id
		draft := DraftToDTO(registry.DraftFromItem(*state.Item))
		dto.ItemId = &id
		dto.Draft = &draft
	}
	return dto
}

func SummaryToDTO(summary Summary) SummaryDTO {
	items := make([]ItemDTO, 0, len(summary.Items))
	for _, cost := range summary.Items {
		items = append(items, ItemToDTO(cost.Item, cost.EffectiveCost))
	}
	return SummaryDTO{
		Settings:        SettingsToDTO(summary.Settings),
		Items:           items,
		TotalExpenses:   summary.TotalExpenses,
		RemainingBudget: summary.RemainingBudget,
		OverBudget:      summary.OverBudget,
		ByCategory:      breakdownToDTO(summary.ByCategory),
		ByType:          breakdownToDTO(summary.ByType),
	}
}

func breakdownToDTO(breakdown expense.Breakdown) []BreakdownEntryDTO {
	entries := make([]BreakdownEntryDTO, 0, len(breakdown))
	for _, entry := range breakdown {
		entries = append(entries, BreakdownEntryDTO{Name: entry.Name, Value: entry.Value})
	}
	return entries
}
