package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tahirturgut/exchange/internal/api/response"
)

func TestRespond(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		response.RespondSuccess(w, http.StatusCreated, "created", map[string]int{"n": 1})

		if w.Code != http.StatusCreated {
			t.Errorf("Expected 201, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %s", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if body["success"] != true || body["message"] != "created" {
			t.Errorf("Unexpected envelope: %v", body)
		}
		if _, ok := body["errors"]; ok {
			t.Error("Expected no errors key on success")
		}
	})

	t.Run("error envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"symbol": "required"})

		var body struct {
			Success bool              `json:"success"`
			Errors  map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if body.Success || body.Errors["symbol"] != "required" {
			t.Errorf("Unexpected envelope: %+v", body)
		}
	})

	t.Run("nil body", func(t *testing.T) {
		w := httptest.NewRecorder()
		response.RespondJSON(w, http.StatusNoContent, nil)

		if w.Body.Len() != 0 {
			t.Errorf("Expected empty body, got %q", w.Body.String())
		}
	})
}
