package booking

import (
	"context"
	"sync"
	"time"

	"github.com/improneuf/bookingcal/internal/config"
	"github.com/improneuf/bookingcal/pkg/yesplan"
	log "github.com/sirupsen/logrus"
)

// OtherBooker is the sentinel selecting events attributed to none of
// the relevant bookers.
const OtherBooker = "Other"

const (
	// enrichBatchSize stays below the client's consecutive-endpoint
	// threshold so a full batch of contact lookups cannot trip the
	// rate guard even under worst-case goroutine interleaving.
	enrichBatchSize = 4
	// enrichBatchPause throttles between lookup batches.
	enrichBatchPause = 150 * time.Millisecond
)

// EventDetails carries the per-event sub-resources fetched during
// enrichment. Contacts drive the booker filter; resources are
// display-only.
type EventDetails struct {
	Contacts  []yesplan.Contact
	Resources []yesplan.Resource
}

type Service struct {
	client          yesplan.Client
	relevantBookers []string
	maxPages        int
	batchSize       int
	batchPause      time.Duration
}

func NewService(client yesplan.Client, cfg config.Calendar) *Service {
	return &Service{
		client:          client,
		relevantBookers: cfg.RelevantBookers,
		maxPages:        cfg.MaxPages,
		batchSize:       enrichBatchSize,
		batchPause:      enrichBatchPause,
	}
}

// RelevantBookers returns the configured allow-list.
func (s *Service) RelevantBookers() []string {
	bookers := make([]string, len(s.relevantBookers))
	copy(bookers, s.relevantBookers)
	return bookers
}

// FindContactID resolves a booker name through the client's session
// cache.
func (s *Service) FindContactID(ctx context.Context, name string) (string, error) {
	return s.client.FindContactByName(ctx, name)
}

// MonthEvents fetches all events around the month containing ref. The
// window is padded by a week on each side so the grid's bleed-over
// cells are populated too.
func (s *Service) MonthEvents(ctx context.Context, ref time.Time) ([]yesplan.Event, yesplan.Extras, error) {
	monthStart, monthEnd := MonthBounds(ref)
	from := monthStart.AddDate(0, 0, -7)
	to := monthEnd.AddDate(0, 0, 7)
	return s.client.FetchEvents(ctx, yesplan.FetchOptions{
		From:     &from,
		To:       &to,
		MaxPages: s.maxPages,
	})
}

// EnrichEvents fetches contacts and resources for each event, a small
// batch at a time with a short pause in between. A failed lookup for
// one event degrades to "no details" for that event; it never aborts
// the batch.
func (s *Service) EnrichEvents(ctx context.Context, events []yesplan.Event) map[string]EventDetails {
	details := make(map[string]EventDetails)
	var mu sync.Mutex

	for batchStart := 0; batchStart < len(events); batchStart += s.batchSize {
		batchEnd := batchStart + s.batchSize
		if batchEnd > len(events) {
			batchEnd = len(events)
		}

		var wg sync.WaitGroup
		for _, ev := range events[batchStart:batchEnd] {
			if ev.ID == "" {
				continue
			}
			wg.Add(1)
			go func(ev yesplan.Event) {
				defer wg.Done()
				contacts, err := s.client.GetEventContacts(ctx, ev.ID)
				if err != nil {
					log.Warnf("could not fetch contacts for event %s: %v", ev.ID, err)
					return
				}
				resources, err := s.client.GetEventResources(ctx, ev.ID)
				if err != nil {
					log.Warnf("could not fetch resources for event %s: %v", ev.ID, err)
					resources = nil
				}
				mu.Lock()
				details[ev.ID] = EventDetails{Contacts: contacts, Resources: resources}
				mu.Unlock()
			}(ev)
		}
		wg.Wait()

		if batchEnd < len(events) && s.batchPause > 0 {
			time.Sleep(s.batchPause)
		}
	}
	return details
}

// FilterByBooker keeps the events attributed to the selected booker.
// With the OtherBooker sentinel it instead keeps events attributed to
// none of the relevant bookers. An empty details map means contact
// data has not arrived yet; in that case all events pass through
// unfiltered rather than all being dropped.
func (s *Service) FilterByBooker(events []yesplan.Event, selected string, details map[string]EventDetails) []yesplan.Event {
	if selected == "" {
		return events
	}
	if len(details) == 0 && len(events) > 0 {
		log.Debug("no contact data loaded yet, skipping booker filter")
		return events
	}

	filtered := make([]yesplan.Event, 0, len(events))
	for _, ev := range events {
		names := candidateNames(ev, details)
		if selected == OtherBooker {
			if !containsAny(names, s.relevantBookers) {
				filtered = append(filtered, ev)
			}
		} else if names[selected] {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// candidateNames is the set of identities an event can be attributed
// to: the names of its contacts plus its own owner name.
func candidateNames(ev yesplan.Event, details map[string]EventDetails) map[string]bool {
	names := make(map[string]bool)
	for _, contact := range details[ev.ID].Contacts {
		if contact.Name != "" {
			names[contact.Name] = true
		}
	}
	if ev.OwnerName != "" {
		names[ev.OwnerName] = true
	}
	return names
}

func containsAny(names map[string]bool, candidates []string) bool {
	for _, candidate := range candidates {
		if names[candidate] {
			return true
		}
	}
	return false
}

// MonthBounds returns the first and last instant of the month
// containing ref.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// FilterByMonth keeps every event whose interval intersects the month
// containing ref: it starts in the month, ends in the month, or spans
// the whole month. Bounds are inclusive and instants are compared as
// absolute values.
func FilterByMonth(events []yesplan.Event, ref time.Time) []yesplan.Event {
	monthStart, monthEnd := MonthBounds(ref)
	inMonth := func(t time.Time) bool {
		return !t.Before(monthStart) && !t.After(monthEnd)
	}

	filtered := make([]yesplan.Event, 0, len(events))
	for _, ev := range events {
		if inMonth(ev.Start) || inMonth(ev.End) ||
			(ev.Start.Before(monthStart) && ev.End.After(monthEnd)) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}
