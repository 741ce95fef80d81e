package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/model"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/instrument/ABC",
//	    map[string]string{"symbol": "ABC"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewJSONRequest creates an HTTP request whose body is body encoded as JSON.
// A string body is sent verbatim, which allows malformed payloads.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		if payload, err = json.Marshal(b); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser attaches the principal for user to the request context, as the
// authentication middleware would.
func AsUser(req *http.Request, user model.User) *http.Request {
	p := auth.Principal{ID: user.ID, Username: user.Username, Role: user.Role}
	return req.WithContext(auth.WithPrincipal(req.Context(), p))
}

// BearerToken issues a token for user with the test secret.
func BearerToken(t *testing.T, user model.User) string {
	t.Helper()

	token, err := NewTestTokenIssuer(t).Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}

// Envelope mirrors the JSON envelope written by the API.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]any  `json:"errors"`
}

// DecodeEnvelope decodes a recorded response, failing the test on malformed JSON.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

// DecodeData decodes the data field of an envelope into T.
func DecodeData[T any](t *testing.T, env Envelope) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("Failed to decode response data %q: %v", string(env.Data), err)
	}
	return v
}
