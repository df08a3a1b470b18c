package calendar

import (
	"time"

	"github.com/improneuf/bookingcal/pkg/yesplan"
)

// CalendarDay is one cell of the month grid. Cells are derived values,
// rebuilt on every month or event-set change, never mutated in place.
type CalendarDay struct {
	Date         time.Time
	DayNumber    int
	IsToday      bool
	IsOtherMonth bool
	Events       []*yesplan.Event
}

// BuildGrid expands the month containing ref into full calendar weeks
// (Monday start) and assigns every event to each day cell its interval
// touches. The result length is always a multiple of 7, between 28 and
// 42 cells. An event spanning N days lands in N cells, all holding the
// same *Event.
func BuildGrid(events []*yesplan.Event, ref time.Time, today time.Time) []CalendarDay {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	gridStart := startOfWeek(monthStart)
	gridEnd := startOfWeek(monthEnd).AddDate(0, 0, 6)

	var days []CalendarDay
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		dayEnd := d.AddDate(0, 0, 1).Add(-time.Nanosecond)

		var dayEvents []*yesplan.Event
		for _, ev := range events {
			if touchesDay(ev, d, dayEnd) {
				dayEvents = append(dayEvents, ev)
			}
		}

		days = append(days, CalendarDay{
			Date:         d,
			DayNumber:    d.Day(),
			IsToday:      sameDate(d, today),
			IsOtherMonth: d.Month() != ref.Month() || d.Year() != ref.Year(),
			Events:       dayEvents,
		})
	}
	return days
}

// startOfWeek returns the Monday beginning the week containing t, at
// midnight.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// touchesDay reports whether the event starts on, ends on, or spans
// across the given day.
func touchesDay(ev *yesplan.Event, dayStart, dayEnd time.Time) bool {
	return !ev.Start.After(dayEnd) && !ev.End.Before(dayStart)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
