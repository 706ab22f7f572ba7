package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		status int
		body   string
	}{
		{name: "ok", data: map[string]int64{"server_version": 4}, status: http.StatusOK, body: `{"server_version":4}`},
		{name: "error status kept", data: map[string]string{"error": "not found"}, status: http.StatusNotFound, body: `{"error":"not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			n, err := WriteJSON(rec, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.body), n)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestWriteJSON_Unserializable(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := WriteJSON(rec, func() {}, http.StatusOK)

	var unsupported *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"client_version":3,"deleted_tags":["t-1"]}`))

	var got models.SyncRequest
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &got))

	assert.Equal(t, int64(3), got.ClientVersion)
	assert.Equal(t, []string{"t-1"}, got.DeletedTags)
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantEmpty bool
	}{
		{name: "no body", body: "", wantEmpty: true},
		{name: "broken json", body: `{"client_version":`},
		{name: "wrong type", body: `{"client_version":"three"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got models.SyncRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &got)
			require.Error(t, err)
			if tt.wantEmpty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			} else {
				assert.NotErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	payload := `{"deleted_tags":["` + strings.Repeat("a", MaxRequestBodySize) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	var got models.SyncRequest
	err := DecodeJSON(httptest.NewRecorder(), req, &got)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}
