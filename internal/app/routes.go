package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Calendar
	r.HandleFunc("/api/calendar", deps.CalendarHandler.GetCalendar).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/export.ics", deps.CalendarHandler.ExportICS).Queries("date", "{date}").Methods("GET")

	// Bookers
	r.HandleFunc("/api/bookers", deps.BookingHandler.ListBookers).Methods("GET")
	r.HandleFunc("/api/contacts/{name}", deps.BookingHandler.GetContact).Methods("GET")

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
