package yesplan

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// startFields and endFields list the raw date fields in resolution
// order: the first non-empty, non-whitespace value wins.
var (
	startFields = []string{"starttime", "start", "defaultschedulestart"}
	endFields   = []string{"endtime", "end", "defaultscheduleend"}
)

// dateLayouts are tried in order when parsing the resolved raw value.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// consumedFields are raw keys the normalizer maps onto typed Event
// fields; everything else is passed through as extras.
var consumedFields = map[string]bool{
	"id":                   true,
	"name":                 true,
	"description":          true,
	"status":               true,
	"starttime":            true,
	"start":                true,
	"defaultschedulestart": true,
	"endtime":              true,
	"end":                  true,
	"defaultscheduleend":   true,
	"owner":                true,
	"locations":            true,
}

// NormalizeEvent maps a heterogeneous raw record onto the canonical
// Event shape. It is total: it never fails, and the returned event
// always carries valid Start/End instants. Unparsable or missing date
// fields fall back to now, recorded on the Defaulted flags. The second
// return value holds the raw fields the canonical shape has no slot
// for.
func NormalizeEvent(raw map[string]any, now time.Time) (Event, map[string]any) {
	ev := Event{
		ID:          stringValue(raw["id"]),
		Name:        stringValue(raw["name"]),
		Description: stringValue(raw["description"]),
		Status:      statusValue(raw["status"]),
		OwnerName:   nameValue(raw["owner"]),
		Locations:   locationsValue(raw["locations"]),
	}

	ev.Start, ev.StartDefaulted = resolveInstant(raw, startFields, now)
	ev.End, ev.EndDefaulted = resolveInstant(raw, endFields, now)

	// Re-validate defensively so callers can assert validity
	// unconditionally.
	if ev.Start.IsZero() {
		ev.Start, ev.StartDefaulted = now, true
	}
	if ev.End.IsZero() {
		ev.End, ev.EndDefaulted = now, true
	}

	if ev.StartDefaulted || ev.EndDefaulted {
		log.Debugf("event %q carried no parsable date, defaulted to now", ev.ID)
	}

	var extra map[string]any
	for key, value := range raw {
		if consumedFields[key] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = value
	}
	return ev, extra
}

// resolveInstant picks the first non-blank candidate field and parses
// it. A missing candidate or a parse failure yields (now, true).
func resolveInstant(raw map[string]any, fields []string, now time.Time) (time.Time, bool) {
	for _, field := range fields {
		value, ok := raw[field]
		if !ok || value == nil {
			continue
		}
		s := strings.TrimSpace(stringValue(value))
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, false
			}
		}
		// The field was present but unparsable; last-resort fallback.
		return now, true
	}
	return now, true
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// statusValue handles the two upstream status conventions: a plain
// string or an object exposing a name property.
func statusValue(v any) string {
	if v == nil {
		return ""
	}
	if m, ok := v.(map[string]any); ok {
		return stringValue(m["name"])
	}
	return stringValue(v)
}

// nameValue resolves an owner-like field that is either a plain string
// or an object with a name.
func nameValue(v any) string {
	if m, ok := v.(map[string]any); ok {
		return stringValue(m["name"])
	}
	return stringValue(v)
}

func locationsValue(v any) []Location {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	locations := make([]Location, 0, len(items))
	for _, item := range items {
		switch l := item.(type) {
		case map[string]any:
			locations = append(locations, Location{
				ID:   stringValue(l["id"]),
				Name: stringValue(l["name"]),
			})
		case string:
			locations = append(locations, Location{Name: l})
		}
	}
	return locations
}
