package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/testutil"
)

func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewPortfolioHandler(testutil.NewTestLedgerService(t, db)), db
}

func TestPortfolioHandler_Portfolio(t *testing.T) {
	t.Run("returns holdings with values", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user, p := testutil.CreateUserWithPortfolio(t, db, "500.00")
		inst := testutil.NewInstrument().WithSymbol("ABC").WithPrice("150.50").Build(t, db)
		testutil.CreateHolding(t, db, p.ID, inst.ID, 10)

		req := testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/trade/portfolio", nil), user)
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		report := testutil.DecodeData[model.PortfolioHoldings](t, testutil.DecodeEnvelope(t, w))
		if len(report.Holdings) != 1 || !report.TotalValue.Equal(testutil.Dec("1505")) {
			t.Errorf("Unexpected report: %+v", report)
		}
	})

	t.Run("returns 404 without portfolio", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/trade/portfolio", nil), user)
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	t.Run("returns 201 with initial holdings summary", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInstrument().WithSymbol("ABC").Build(t, db)

		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/portfolio", map[string]any{
			"name":           "Growth",
			"initialBalance": 1000,
			"initialShares": []map[string]any{
				{"symbol": "ABC", "quantity": 2},
				{"symbol": "NOP", "quantity": 1},
			},
		}), user)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		created := testutil.DecodeData[model.PortfolioCreation](t, testutil.DecodeEnvelope(t, w))
		if created.Portfolio.Name != "Growth" {
			t.Errorf("Expected name Growth, got %s", created.Portfolio.Name)
		}
		if created.InitialHoldings == nil || created.InitialHoldings.Processed != 1 || len(created.InitialHoldings.Errors) != 1 {
			t.Errorf("Unexpected summary: %+v", created.InitialHoldings)
		}
	})

	t.Run("empty body applies defaults", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.AsUser(httptest.NewRequest(http.MethodPost, "/api/trade/portfolio", nil), user)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 for a second portfolio", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user, _ := testutil.CreateUserWithPortfolio(t, db, "1.00")

		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/portfolio", map[string]any{"name": "Again"}), user)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for invalid fields", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/portfolio", map[string]any{
			"name":           "ab",
			"initialBalance": -1,
		}), user)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
		env := testutil.DecodeEnvelope(t, w)
		if _, ok := env.Errors["name"]; !ok {
			t.Errorf("Expected name error, got %v", env.Errors)
		}
		if _, ok := env.Errors["initialBalance"]; !ok {
			t.Errorf("Expected initialBalance error, got %v", env.Errors)
		}
	})
}

func TestPortfolioHandler_UpdatePortfolio(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"new balance", map[string]any{"newBalance": "2500.75"}, http.StatusOK},
		{"rename", map[string]any{"name": "Renamed"}, http.StatusOK},
		{"negative balance", map[string]any{"newBalance": -1}, http.StatusBadRequest},
		{"nothing to update", map[string]any{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, db := setupPortfolioHandler(t)
			user, _ := testutil.CreateUserWithPortfolio(t, db, "100.00")

			req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPut, "/api/trade/portfolio", tt.body), user)
			w := httptest.NewRecorder()

			handler.UpdatePortfolio(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestPortfolioHandler_DeletePortfolio(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	user, p := testutil.CreateUserWithPortfolio(t, db, "100.00")
	inst := testutil.NewInstrument().WithSymbol("ABC").Build(t, db)
	testutil.CreateHolding(t, db, p.ID, inst.ID, 1)

	req := testutil.AsUser(httptest.NewRequest(http.MethodDelete, "/api/trade/portfolio", nil), user)
	w := httptest.NewRecorder()

	handler.DeletePortfolio(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	deleted := testutil.DecodeData[model.PortfolioDeletion](t, testutil.DecodeEnvelope(t, w))
	if deleted.PortfolioID != p.ID || deleted.HoldingsDeleted != 1 {
		t.Errorf("Unexpected deletion: %+v", deleted)
	}

	w = httptest.NewRecorder()
	handler.DeletePortfolio(w, testutil.AsUser(httptest.NewRequest(http.MethodDelete, "/api/trade/portfolio", nil), user))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}
