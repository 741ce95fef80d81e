package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/service"
)

// InstrumentHandler serves the instrument catalog.
type InstrumentHandler struct {
	catalog *service.CatalogService
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(catalog *service.CatalogService) *InstrumentHandler {
	return &InstrumentHandler{catalog: catalog}
}

// Instruments handles GET /api/instrument.
func (h *InstrumentHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.catalog.ListInstruments(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", instruments)
}

// Instrument handles GET /api/instrument/{symbol}. The symbol format is
// checked by middleware.
func (h *InstrumentHandler) Instrument(w http.ResponseWriter, r *http.Request) {
	instrument, err := h.catalog.GetInstrument(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", instrument)
}
