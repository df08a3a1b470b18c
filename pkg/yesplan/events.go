package yesplan

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxPages is the hard cap on pages followed during one fetch.
// It protects against a server that never reports completion.
const DefaultMaxPages = 10

// dateFilterLayout is the DD-MM-YYYY format the YesPlan date filter
// idiom expects inside the path segment.
const dateFilterLayout = "02-01-2006"

// FetchOptions scopes an event fetch. From/To, when both set, are
// embedded in the endpoint path as a YesPlan date filter. MaxPages of
// zero means DefaultMaxPages.
type FetchOptions struct {
	From     *time.Time
	To       *time.Time
	MaxPages int
}

// pageInfo is the pagination block of a listing response. Upstream
// emits either a book/page/hasMore triple or an opaque next locator.
type pageInfo struct {
	Book    string `json:"book"`
	Page    int    `json:"page"`
	HasMore bool   `json:"hasMore"`
	Next    string `json:"next"`
}

type eventsResponse struct {
	Data       []map[string]any `json:"data"`
	Pagination *pageInfo        `json:"pagination"`
}

// FetchEvents retrieves all event pages within the page cap,
// normalizing each record. A single request failure aborts the whole
// fetch: no partial result is returned.
func (c *ClientImpl) FetchEvents(ctx context.Context, opts FetchOptions) ([]Event, Extras, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	endpoint := "events"
	if opts.From != nil && opts.To != nil {
		filter := fmt.Sprintf("date:%s TO %s",
			opts.From.Format(dateFilterLayout), opts.To.Format(dateFilterLayout))
		endpoint = "events/" + url.PathEscape(filter)
	}

	var events []Event
	extras := Extras{}
	book := ""
	page := 0

	for fetched := 0; fetched < maxPages; fetched++ {
		query := url.Values{}
		if book != "" {
			query.Set("book", book)
		}
		if page > 0 {
			query.Set("page", strconv.Itoa(page))
		}

		var resp eventsResponse
		if err := c.get(ctx, endpoint, query, &resp); err != nil {
			return nil, nil, err
		}

		now := c.clock.Now()
		for _, raw := range resp.Data {
			ev, extra := NormalizeEvent(raw, now)
			events = append(events, ev)
			if len(extra) > 0 && ev.ID != "" {
				extras[ev.ID] = extra
			}
		}

		p := resp.Pagination
		if p == nil {
			break
		}
		if p.Next != "" {
			if nextBook, nextPage, ok := parseNextLocator(p.Next); ok {
				book, page = nextBook, nextPage
			} else {
				log.Debugf("could not parse next locator %q, incrementing page", p.Next)
				page++
			}
			continue
		}
		if p.HasMore {
			if p.Book != "" {
				book = p.Book
			}
			if p.Page > 0 {
				page = p.Page + 1
			} else {
				page++
			}
			continue
		}
		break
	}

	return events, extras, nil
}

// parseNextLocator extracts book/page continuation values from an
// opaque next locator.
func parseNextLocator(next string) (string, int, bool) {
	u, err := url.Parse(next)
	if err != nil {
		return "", 0, false
	}
	query := u.Query()
	book := query.Get("book")
	pageValue := query.Get("page")
	if book == "" && pageValue == "" {
		return "", 0, false
	}
	page := 0
	if pageValue != "" {
		page, err = strconv.Atoi(pageValue)
		if err != nil {
			return "", 0, false
		}
	}
	return book, page, true
}

// GetEvent fetches a single event. Unlike listings, the response is a
// bare object, not wrapped in a data envelope. A missing event is an
// error here (ErrNotFound), not a nil result.
func (c *ClientImpl) GetEvent(ctx context.Context, id string) (*Event, error) {
	var raw map[string]any
	if err := c.get(ctx, "event/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	ev, _ := NormalizeEvent(raw, c.clock.Now())
	return &ev, nil
}

// GetEventContacts lists the contacts attached to an event. A 404
// means the event has no contact sub-resource and degrades to an
// empty result.
func (c *ClientImpl) GetEventContacts(ctx context.Context, id string) ([]Contact, error) {
	var resp struct {
		Data []Contact `json:"data"`
	}
	err := c.get(ctx, "event/"+url.PathEscape(id)+"/contacts", nil, &resp)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Data, nil
}

// GetEventResources lists the resources attached to an event, with
// the same 404 degradation as GetEventContacts.
func (c *ClientImpl) GetEventResources(ctx context.Context, id string) ([]Resource, error) {
	var resp struct {
		Data []Resource `json:"data"`
	}
	err := c.get(ctx, "event/"+url.PathEscape(id)+"/resources", nil, &resp)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Data, nil
}
