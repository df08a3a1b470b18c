package yesplan

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContactByName_CachesResolvedID(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/contacts/Impro Neuf", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "c42", "name": "Impro Neuf"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.FindContactByName(t.Context(), "Impro Neuf")
	require.NoError(t, err)
	assert.Equal(t, "c42", id)
	assert.Equal(t, 1, requests)

	// Second lookup is served from the session cache.
	id, err = client.FindContactByName(t.Context(), "Impro Neuf")
	require.NoError(t, err)
	assert.Equal(t, "c42", id)
	assert.Equal(t, 1, requests)
}

func TestFindContactByName_RequiresExactMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{
				{"id": "c1", "name": "Impro Neuf Workshops"},
				{"id": "c2", "name": "Impro Neuf"},
				{"id": "c3", "name": "Impro Neuf"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// First exact match wins; near-matches are ignored.
	id, err := client.FindContactByName(t.Context(), "Impro Neuf")
	require.NoError(t, err)
	assert.Equal(t, "c2", id)
}

func TestFindContactByName_NoMatchResolvesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "c1", "name": "Someone Else"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.FindContactByName(t.Context(), "Impro Neuf")
	assert.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestFindContactByName_NotFoundIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.FindContactByName(t.Context(), "Nobody")
	assert.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestFindContactByName_OtherFailuresPropagate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FindContactByName(t.Context(), "Impro Neuf")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resources", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"data": []map[string]any{{"id": "r1", "name": "Storsalen", "type": "location"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	resources, err := client.GetResources(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []Resource{{ID: "r1", Name: "Storsalen", Type: "location"}}, resources)
}
