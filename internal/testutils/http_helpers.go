package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoRequest sends a request with an optional JSON body through handler and
// returns the recorded response. A string body is sent verbatim; any other
// non-nil value is JSON encoded.
func DoRequest(t testing.TB, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err, "Failed to encode request body")
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON decodes the recorded body into a value of type T.
func DecodeJSON[T any](t testing.TB, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "Failed to decode response body: %s", rr.Body.String())
	return out
}

// AssertErrorResponse checks the status and the name/message/status_code
// fields of an error body.
func AssertErrorResponse(t testing.TB, rr *httptest.ResponseRecorder, status int, name, message string) {
	t.Helper()

	assert.Equal(t, status, rr.Code, "unexpected status, body: %s", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	body := DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, name, body["name"])
	assert.Equal(t, message, body["message"])
	assert.EqualValues(t, status, body["status_code"])
}
