package server

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessStats is the resource usage of the server process
type ProcessStats struct {
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
}

// HealthReport is the body of GET /api/health
type HealthReport struct {
	Status   string                                `json:"status"`
	Version  string                                `json:"version,omitempty"`
	Uptime   string                                `json:"uptime"`
	Database string                                `json:"database"`
	Process  *ProcessStats                         `json:"process,omitempty"`
	Modules  map[string]modulemanager.HealthStatus `json:"modules,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report := HealthReport{
		Status:   "healthy",
		Version:  s.opts.Version,
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Database: "not configured",
	}

	if s.opts.DB != nil {
		report.Database = "connected"
		sqlDB, err := s.opts.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			report.Database = "unreachable"
			report.Status = "unhealthy"
			s.logger.Warn("health check database ping failed", "error", err)
		}
	}

	if stats, err := processStats(ctx); err != nil {
		s.logger.Debug("process stats unavailable", "error", err)
	} else {
		report.Process = stats
	}

	if s.opts.Registry != nil {
		report.Modules = s.opts.Registry.Health(ctx)
		for _, status := range report.Modules {
			if status.Status == modulemanager.HealthStateUnhealthy {
				report.Status = "degraded"
			}
		}
	}

	code := http.StatusOK
	if report.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

func processStats(ctx context.Context) (*ProcessStats, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	cpu, err := proc.CPUPercentWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &ProcessStats{
		RSSBytes:   mem.RSS,
		CPUPercent: cpu,
		Goroutines: runtime.NumGoroutine(),
	}, nil
}
