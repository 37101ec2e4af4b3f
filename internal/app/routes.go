package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Session
	r.HandleFunc("/api/session", deps.PlannerHandler.StartSession).Methods("POST")
	r.HandleFunc("/api/session", deps.PlannerHandler.EndSession).Methods("DELETE")

	// Budget settings
	r.HandleFunc("/api/settings", deps.PlannerHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", deps.PlannerHandler.UpdateSettings).Methods("PUT")

	// Items
	r.HandleFunc("/api/items", deps.PlannerHandler.ListItems).Methods("GET")
	r.HandleFunc("/api/items", deps.PlannerHandler.AddItem).Methods("POST")
	r.HandleFunc("/api/items", deps.PlannerHandler.ResetItems).Methods("DELETE")
	r.HandleFunc("/api/items/{itemId}", deps.PlannerHandler.DeleteItem).Methods("DELETE")

	// Edit mode
	r.HandleFunc("/api/items/{itemId}/edit", deps.PlannerHandler.BeginEdit).Methods("POST")
	r.HandleFunc("/api/edit", deps.PlannerHandler.GetEditState).Methods("GET")
	r.HandleFunc("/api/edit", deps.PlannerHandler.CancelEdit).Methods("DELETE")

	// Summary
	r.HandleFunc("/api/summary", deps.PlannerHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/options", deps.PlannerHandler.GetOptions).Methods("GET")
}
