// ABOUTME: Tests for the gateway client
// ABOUTME: Covers decoding, error replies and the all-or-nothing fetch
package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/reicrm/models"
)

func TestListDecodesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"rec1","fields":{"Address":"1 Elm St","Asking Price":100000}}]`)
	}))
	defer server.Close()

	properties, err := New(server.URL, 0).ListProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, 100000.0, properties[0].Asking())
}

func TestCreatePropertySendsFormPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/properties/create", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1 Elm St", body["address"])
		assert.Equal(t, "", body["askingPrice"], "blank numbers travel as empty strings")

		_, _ = io.WriteString(w, `{"success":true,"property":{"id":"recP"},"message":"Property created successfully"}`)
	}))
	defer server.Close()

	result, err := New(server.URL, 0).CreateProperty(context.Background(), models.PropertyInput{Address: "1 Elm St"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "recP", result.Property.ID)
}

func TestErrorReplies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/activities/complete":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"Activity ID is required"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `<html>proxy error</html>`)
		}
	}))
	defer server.Close()

	c := New(server.URL, 0)

	_, err := c.CompleteActivity(context.Background(), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Activity ID is required", apiErr.Message)

	_, err = c.ListContacts(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestUnreachableGatewayIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url, 0).BulkCreateProperties(context.Background(), []map[string]string{{"Address": "x"}})
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchAllAllOrNothing(t *testing.T) {
	var failContacts atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/contacts" && failContacts.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"Failed to fetch contacts"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"rec1","fields":{}}]`)
	}))
	defer server.Close()

	c := New(server.URL, 0)

	snap, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Properties, 1)
	assert.Len(t, snap.Contacts, 1)
	assert.Len(t, snap.Activities, 1)

	failContacts.Store(true)
	snap, err = c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch contacts", err.Error())
	assert.Nil(t, snap.Properties)
}
