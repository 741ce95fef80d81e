package handlers

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/system/health
// Response: 200 OK when the database answers, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
		response.RespondJSON(w, http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: "database unavailable",
			Data:    HealthResponse{Status: "unhealthy", Database: "disconnected"},
		})
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", HealthResponse{Status: "healthy", Database: "connected"})
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with application and schema versions
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", version)
}
