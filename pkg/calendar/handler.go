package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/improneuf/bookingcal/internal/rest"
	"github.com/improneuf/bookingcal/internal/utils"
	"github.com/improneuf/bookingcal/pkg/booking"
	"github.com/improneuf/bookingcal/pkg/color"
	"github.com/improneuf/bookingcal/pkg/ical"
	"github.com/improneuf/bookingcal/pkg/yesplan"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Handler struct {
	booking *booking.Service
	clock   utils.Clock
}

type CalendarDTO struct {
	Month string   `json:"month"`
	Days  []DayDTO `json:"days"`
}

type DayDTO struct {
	Date         string     `json:"date"`
	DayNumber    int        `json:"dayNumber"`
	IsToday      bool       `json:"isToday"`
	IsOtherMonth bool       `json:"isOtherMonth"`
	Events       []EventDTO `json:"events"`
}

type EventDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status,omitempty"`
	Description string    `json:"description,omitempty"`
	Locations   []string  `json:"locations,omitempty"`
	Resources   []string  `json:"resources,omitempty"`
	Color       string    `json:"color"`
	HoverColor  string    `json:"hoverColor"`
	Defaulted   bool      `json:"defaulted,omitempty"`
}

func NewHandler(bookingService *booking.Service, clock utils.Clock) *Handler {
	return &Handler{booking: bookingService, clock: clock}
}

// GetCalendar renders the month grid around the requested date,
// optionally narrowed to a single booker.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.parseDate(w, r)
	if !ok {
		return
	}
	booker := r.URL.Query().Get("booker")

	events, details, ok := h.monthPipeline(w, r, ref, booker)
	if !ok {
		return
	}

	eventPtrs := make([]*yesplan.Event, len(events))
	for i := range events {
		eventPtrs[i] = &events[i]
	}
	days := BuildGrid(eventPtrs, ref, h.clock.Now())

	dto := CalendarDTO{
		Month: ref.Format("2006-01"),
		Days:  make([]DayDTO, 0, len(days)),
	}
	for _, day := range days {
		dayDTO := DayDTO{
			Date:         day.Date.Format(dateLayout),
			DayNumber:    day.DayNumber,
			IsToday:      day.IsToday,
			IsOtherMonth: day.IsOtherMonth,
			Events:       make([]EventDTO, 0, len(day.Events)),
		}
		for _, ev := range day.Events {
			dayDTO.Events = append(dayDTO.Events, eventToDTO(ev, details))
		}
		dto.Days = append(dto.Days, dayDTO)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ExportICS renders the same filtered month as an iCalendar document.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.parseDate(w, r)
	if !ok {
		return
	}
	booker := r.URL.Query().Get("booker")

	events, _, ok := h.monthPipeline(w, r, ref, booker)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"bookings.ics\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ical.Render(events, h.clock.Now()))); err != nil {
		log.Errorf("failed to write iCalendar response: %v", err)
	}
}

// monthPipeline runs fetch → enrich → booker filter → month filter and
// writes the error response itself when something fails.
func (h *Handler) monthPipeline(w http.ResponseWriter, r *http.Request, ref time.Time, booker string) ([]yesplan.Event, map[string]booking.EventDetails, bool) {
	events, _, err := h.booking.MonthEvents(r.Context(), ref)
	if err != nil {
		log.Errorf("failed to fetch events: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusForError(err))
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Failed to fetch events"})
		return nil, nil, false
	}

	details := h.booking.EnrichEvents(r.Context(), events)
	if booker != "" {
		events = h.booking.FilterByBooker(events, booker, details)
	}
	events = booking.FilterByMonth(events, ref)
	return events, details, true
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateString := r.URL.Query().Get("date")
	ref, err := time.Parse(dateLayout, dateString)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be in YYYY-MM-DD format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return time.Time{}, false
	}
	return ref, true
}

func eventToDTO(ev *yesplan.Event, details map[string]booking.EventDetails) EventDTO {
	dto := EventDTO{
		ID:          ev.ID,
		Name:        ev.Name,
		Start:       ev.Start,
		End:         ev.End,
		Status:      ev.Status,
		Description: ev.Description,
		Color:       color.ColorFor(ev.Name),
		HoverColor:  color.HoverColorFor(ev.Name),
		Defaulted:   ev.StartDefaulted || ev.EndDefaulted,
	}
	for _, location := range ev.Locations {
		dto.Locations = append(dto.Locations, location.Name)
	}
	for _, resource := range details[ev.ID].Resources {
		dto.Resources = append(dto.Resources, resource.Name)
	}
	return dto
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, yesplan.ErrUnauthorized):
		return http.StatusBadGateway
	case errors.Is(err, yesplan.ErrRateLimited), errors.Is(err, yesplan.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, yesplan.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
