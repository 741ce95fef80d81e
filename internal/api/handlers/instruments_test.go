package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/testutil"
)

func TestInstrumentHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewInstrumentHandler(testutil.NewTestCatalogService(t, db, cache.NewMemoryQuoteCache(time.Minute)))
	testutil.NewInstrument().WithSymbol("XYZ").WithPrice("75.25").Build(t, db)
	testutil.NewInstrument().WithSymbol("ABC").WithPrice("150.50").Build(t, db)

	t.Run("lists instruments", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Instruments(w, httptest.NewRequest(http.MethodGet, "/api/instrument", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		instruments := testutil.DecodeData[[]model.Instrument](t, testutil.DecodeEnvelope(t, w))
		if len(instruments) != 2 || instruments[0].Symbol != "ABC" {
			t.Errorf("Unexpected instruments: %+v", instruments)
		}
	})

	t.Run("gets one instrument", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Instrument(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/instrument/XYZ", map[string]string{"symbol": "XYZ"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		inst := testutil.DecodeData[model.Instrument](t, testutil.DecodeEnvelope(t, w))
		if !inst.CurrentPrice.Equal(testutil.Dec("75.25")) {
			t.Errorf("Expected 75.25, got %s", inst.CurrentPrice)
		}
	})

	t.Run("returns 404 for unknown symbol", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Instrument(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/instrument/NOP", map[string]string{"symbol": "NOP"}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
