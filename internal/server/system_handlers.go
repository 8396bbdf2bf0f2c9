package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/portattr/internal/utils"
)

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	workers     int
}

// SystemStatusResponse represents the service and host status
type SystemStatusResponse struct {
	Status        string  `json:"status" msgpack:"status"`
	UptimeSeconds float64 `json:"uptime_seconds" msgpack:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent" msgpack:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent" msgpack:"ram_percent"`
	GoVersion     string  `json:"go_version" msgpack:"go_version"`
	Goroutines    int     `json:"goroutines" msgpack:"goroutines"`
	RiskWorkers   int     `json:"risk_workers" msgpack:"risk_workers"`
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger, workers int) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		startupTime: time.Now(),
		workers:     workers,
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		RiskWorkers:   h.workers,
	}

	utils.WriteData(w, r, h.log, http.StatusOK, response)
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// Sample over 100ms so the endpoint stays responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
