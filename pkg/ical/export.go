// Package ical renders a set of bookings as an iCalendar document so
// the filtered month can be subscribed to from external calendar
// clients.
package ical

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/improneuf/bookingcal/pkg/yesplan"
)

// Render serializes the given events as a VCALENDAR. now is used for
// the DTSTAMP of every entry.
func Render(events []yesplan.Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, ev := range events {
		uid := ev.ID
		if uid == "" {
			uid = uuid.NewString()
		}

		entry := cal.AddEvent(uid)
		entry.SetDtStampTime(now)
		entry.SetStartAt(ev.Start)
		entry.SetEndAt(ev.End)
		entry.SetSummary(ev.Name)
		if ev.Description != "" {
			entry.SetDescription(ev.Description)
		}
		if ev.Status != "" {
			entry.SetStatus(ics.ObjectStatus(ev.Status))
		}
		if location := locationLine(ev.Locations); location != "" {
			entry.SetLocation(location)
		}
	}

	return cal.Serialize()
}

func locationLine(locations []yesplan.Location) string {
	names := make([]string, 0, len(locations))
	for _, l := range locations {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return strings.Join(names, ", ")
}
