package yesplan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/improneuf/bookingcal/internal/config"
	"github.com/improneuf/bookingcal/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configWithKey(key string) config.YesPlan {
	return config.YesPlan{BaseURL: "https://example.test/api", APIKey: key}
}

func newTestClient(serverURL string) *ClientImpl {
	return &ClientImpl{
		baseURL:          serverURL,
		apiKey:           "test-key",
		httpClient:       http.DefaultClient,
		clock:            &utils.MockClock{FixedNow: testNow},
		guard:            newRateGuard(),
		contactIDsByName: make(map[string]string),
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestFetchEvents_SinglePage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{
				{"id": "e1", "name": "Show", "starttime": "2026-03-01T19:00:00Z", "endtime": "2026-03-01T21:00:00Z"},
				{"id": "e2", "name": "Workshop"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, extras, err := client.FetchEvents(t.Context(), FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, time.Date(2026, time.March, 1, 19, 0, 0, 0, time.UTC), events[0].Start)
	// The record with no date fields still yields valid instants.
	assert.Equal(t, testNow, events[1].Start)
	assert.True(t, events[1].StartDefaulted)
	assert.Empty(t, extras)
}

func TestFetchEvents_FollowsNextLocator(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("book") == "" {
			writeJSON(t, w, map[string]any{
				"data": []map[string]any{{"id": "e1"}},
				"pagination": map[string]any{
					"next": "/api/events?book=b1&page=1",
				},
			})
			return
		}
		assert.Equal(t, "b1", r.URL.Query().Get("book"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "e2"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, _, err := client.FetchEvents(t.Context(), FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[1].ID)
}

func TestFetchEvents_UnparsableNextFallsBackToPageIncrement(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		if len(pages) == 1 {
			writeJSON(t, w, map[string]any{
				"data": []map[string]any{{"id": "e1"}},
				"pagination": map[string]any{
					"next": "/api/events/continued",
				},
			})
			return
		}
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "e2"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, _, err := client.FetchEvents(t.Context(), FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"", "1"}, pages)
	assert.Len(t, events, 2)
}

func TestFetchEvents_StopsAtMaxPages(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// The server never reports completion.
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "e"}},
			"pagination": map[string]any{
				"book":    "b1",
				"page":    requests - 1,
				"hasMore": true,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, _, err := client.FetchEvents(t.Context(), FetchOptions{MaxPages: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Len(t, events, 3)
}

func TestFetchEvents_RequestFailureAbortsFetch(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			writeJSON(t, w, map[string]any{
				"data":       []map[string]any{{"id": "e1"}},
				"pagination": map[string]any{"hasMore": true},
			})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	events, extras, err := client.FetchEvents(t.Context(), FetchOptions{})

	// No partial results: the first page is discarded too.
	require.Error(t, err)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Nil(t, events)
	assert.Nil(t, extras)
}

func TestFetchEvents_DateRangeEmbeddedInPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/date:01-01-2026 TO 31-01-2026", r.URL.Path)
		writeJSON(t, w, map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	client := newTestClient(server.URL)
	_, _, err := client.FetchEvents(t.Context(), FetchOptions{From: &from, To: &to})
	assert.NoError(t, err)
}

func TestFetchEvents_CollectsExtras(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{
				{"id": "e1", "name": "Show", "profile": "public"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, extras, err := client.FetchEvents(t.Context(), FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"profile": "public"}, extras["e1"])
}

func TestGetEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/event/e1":
			// Single events are bare objects, not data envelopes.
			writeJSON(t, w, map[string]any{
				"id": "e1", "name": "Show", "starttime": "2026-03-01T19:00:00Z",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ev, err := client.GetEvent(t.Context(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Show", ev.Name)

	// A missing event is an error, unlike optional sub-resources.
	_, err = client.GetEvent(t.Context(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEventSubResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/event/e1/contacts":
			writeJSON(t, w, map[string]any{"data": []map[string]any{{"id": "c1", "name": "Impro Neuf"}}})
		case "/event/e1/resources":
			writeJSON(t, w, map[string]any{"data": []map[string]any{{"id": "r1", "name": "Storsalen"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	contacts, err := client.GetEventContacts(t.Context(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []Contact{{ID: "c1", Name: "Impro Neuf"}}, contacts)

	resources, err := client.GetEventResources(t.Context(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []Resource{{ID: "r1", Name: "Storsalen"}}, resources)

	// 404 on sub-resources degrades to an empty result.
	contacts, err = client.GetEventContacts(t.Context(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestClient_StatusMapping(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, _, err := client.FetchEvents(t.Context(), FetchOptions{})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(configWithKey(""))
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	client, err := NewClient(configWithKey("key"))
	assert.NoError(t, err)
	assert.NotNil(t, client)
}
