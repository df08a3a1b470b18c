package yesplan

import (
	"fmt"
	"strings"
	"sync"
)

// rateLimitThreshold is the number of consecutive calls to one endpoint
// shape the guard tolerates before rejecting.
const rateLimitThreshold = 5

// singularKeywords are path segments that are followed by an opaque
// identifier in the YesPlan API (e.g. /event/{id}/contacts).
var singularKeywords = map[string]bool{
	"event":    true,
	"contact":  true,
	"resource": true,
	"location": true,
}

var knownSegments = map[string]bool{
	"event":     true,
	"events":    true,
	"contact":   true,
	"contacts":  true,
	"resource":  true,
	"resources": true,
	"location":  true,
	"locations": true,
}

// rateGuard is a local circuit breaker against tight sequential
// repetition of the same logical endpoint. It is not a token bucket:
// it only counts consecutive calls, and any call to a different shape
// resets the counter.
type rateGuard struct {
	mu        sync.Mutex
	threshold int
	lastShape string
	count     int
}

func newRateGuard() *rateGuard {
	return &rateGuard{threshold: rateLimitThreshold}
}

func (g *rateGuard) check(endpoint string) error {
	shape := normalizeEndpointShape(endpoint)

	g.mu.Lock()
	defer g.mu.Unlock()

	if shape == g.lastShape {
		g.count++
	} else {
		g.lastShape = shape
		g.count = 1
	}
	if g.count > g.threshold {
		return fmt.Errorf("%w: %s called %d times in a row", ErrRateLimitExceeded, shape, g.count)
	}
	return nil
}

// normalizeEndpointShape strips the query string and collapses opaque
// identifier segments into a placeholder, so that /event/123/contacts
// and /event/456/contacts count as the same logical endpoint while
// /events and /event/{id} stay distinct.
func normalizeEndpointShape(endpoint string) string {
	if i := strings.Index(endpoint, "?"); i >= 0 {
		endpoint = endpoint[:i]
	}
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	for i := 1; i < len(segments); i++ {
		prev := strings.ToLower(segments[i-1])
		if singularKeywords[prev] && !knownSegments[strings.ToLower(segments[i])] {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
