package yesplan

import "time"

// Event is the canonical, normalized shape of a YesPlan event record.
// Start and End are always valid instants: the normalizer substitutes
// the current time for missing or unparsable source fields and marks
// the substitution via the Defaulted flags. End is not guaranteed to
// be at or after Start; consumers must tolerate inverted ranges.
type Event struct {
	ID          string
	Name        string
	Status      string
	Description string
	Start       time.Time
	End         time.Time
	OwnerName   string
	Locations   []Location

	// StartDefaulted / EndDefaulted record that the corresponding
	// instant was substituted because the raw record carried no
	// parsable value.
	StartDefaulted bool
	EndDefaulted   bool
}

type Location struct {
	ID   string
	Name string
}

type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Extras is the passthrough side-map: raw record fields the normalizer
// did not consume, keyed by event id. Downstream consumers may read
// them, the core itself never depends on anything in here.
type Extras map[string]map[string]any
