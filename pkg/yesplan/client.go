package yesplan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/improneuf/bookingcal/internal/config"
	"github.com/improneuf/bookingcal/internal/metrics"
	"github.com/improneuf/bookingcal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Client is the read-only surface of the YesPlan API this application
// consumes.
type Client interface {
	FetchEvents(ctx context.Context, opts FetchOptions) ([]Event, Extras, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetEventContacts(ctx context.Context, id string) ([]Contact, error)
	GetEventResources(ctx context.Context, id string) ([]Resource, error)
	GetResources(ctx context.Context) ([]Resource, error)
	FindContactByName(ctx context.Context, name string) (string, error)
}

// ClientImpl talks to a YesPlan installation. It owns the two pieces
// of session state the pipeline needs: the contact name→id cache and
// the endpoint rate guard. Independent sessions (e.g. in tests) get
// independent state by constructing separate clients.
type ClientImpl struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	clock      utils.Clock
	guard      *rateGuard

	mu               sync.Mutex
	contactIDsByName map[string]string
}

// NewClient builds a YesPlan client. A missing API key is a fatal
// configuration error, surfaced here rather than on first request.
func NewClient(cfg config.YesPlan) (*ClientImpl, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &ClientImpl{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:           cfg.APIKey,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		clock:            utils.SystemClock{},
		guard:            newRateGuard(),
		contactIDsByName: make(map[string]string),
	}, nil
}

// get issues one GET against the API, checking the rate guard first
// and mapping the upstream status code onto the error taxonomy.
func (c *ClientImpl) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	shape := normalizeEndpointShape(endpoint)

	if err := c.guard.check(endpoint); err != nil {
		log.Errorf("Rate guard rejected call to %s: %v", shape, err)
		metrics.UpstreamRequests.WithLabelValues(shape, "rejected").Inc()
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	reqURL := c.baseURL + "/" + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		metrics.UpstreamRequests.WithLabelValues(shape, "transport_error").Inc()
		return fmt.Errorf("yesplan request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		metrics.UpstreamRequests.WithLabelValues(shape, "ok").Inc()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Errorf("Failed to decode response: %v", err)
			return fmt.Errorf("yesplan request failed: could not decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.UpstreamRequests.WithLabelValues(shape, "unauthorized").Inc()
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamRequests.WithLabelValues(shape, "not_found").Inc()
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.UpstreamRequests.WithLabelValues(shape, "rate_limited").Inc()
		return ErrRateLimited
	default:
		metrics.UpstreamRequests.WithLabelValues(shape, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		log.Error(apiErr)
		return apiErr
	}
}
