package server

import (
	"net/http"

	"github.com/aristath/portattr/internal/utils"
)

// Version is the service version reported by the health endpoint.
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "portattr",
	}

	utils.WriteData(w, r, s.log, http.StatusOK, response)
}
