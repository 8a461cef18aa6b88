package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/database"
	"github.com/vendora/backend/internal/models"
)

// Checker manages health checks for the backing services
type Checker struct {
	dbManager  *database.Manager
	cache      *database.ResponseCache
	healthRepo models.SystemHealthRepository
	logger     *logrus.Logger
	aiBaseURL  string
}

func NewChecker(dbManager *database.Manager, cache *database.ResponseCache, healthRepo models.SystemHealthRepository, logger *logrus.Logger, aiBaseURL string) *Checker {
	return &Checker{
		dbManager:  dbManager,
		cache:      cache,
		healthRepo: healthRepo,
		logger:     logger,
		aiBaseURL:  aiBaseURL,
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

// CheckPostgreSQL checks database health
func (h *Checker) CheckPostgreSQL() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingDatabase()
	return h.report("postgresql", err, start)
}

// CheckRedis checks cache health
func (h *Checker) CheckRedis() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingRedis()
	return h.report("redis", err, start)
}

// CheckAIProvider checks the external tag-extraction endpoint. The service
// is degraded, not down, without it: the manual and keyword strategies keep
// working.
func (h *Checker) CheckAIProvider() ServiceHealth {
	if h.aiBaseURL == "" {
		return ServiceHealth{
			Name:        "ai_provider",
			Status:      "degraded",
			Error:       "not configured",
			LastChecked: time.Now().Format(time.RFC3339),
		}
	}

	start := time.Now()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(h.aiBaseURL + "/models")
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			err = fmt.Errorf("HTTP %d", resp.StatusCode)
		}
	}

	return h.report("ai_provider", err, start)
}

func (h *Checker) report(name string, err error, start time.Time) ServiceHealth {
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", name).Error("Health check failed")
	}

	if repoErr := h.healthRepo.UpdateServiceHealth(name, status, responseTime, errorMsg); repoErr != nil {
		h.logger.WithError(repoErr).WithField("service", name).Warn("Failed to record health status")
	}

	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *Checker) CheckAll() OverallHealth {
	services := []ServiceHealth{
		h.CheckPostgreSQL(),
		h.CheckRedis(),
		h.CheckAIProvider(),
	}

	overallStatus := "healthy"
	for _, service := range services {
		if service.Status == "unhealthy" {
			overallStatus = "unhealthy"
			break
		}
		if service.Status == "degraded" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	return OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   h.getUptime(),
	}
}

// CheckCached returns cached health status if available
func (h *Checker) CheckCached(ctx context.Context) (*OverallHealth, error) {
	cachedHealth, err := h.cache.GetCachedSystemHealth(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]ServiceHealth, len(cachedHealth))
	overallStatus := "healthy"

	for i, item := range cachedHealth {
		services[i] = ServiceHealth{
			Name:         item.ServiceName,
			Status:       item.Status,
			ResponseTime: item.ResponseTimeMs,
			Error:        item.ErrorMessage,
			LastChecked:  item.CheckedAt.Format(time.RFC3339),
		}

		if item.Status == "unhealthy" {
			overallStatus = "unhealthy"
		} else if item.Status == "degraded" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	return &OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   h.getUptime(),
	}, nil
}

var startTime = time.Now()

func (h *Checker) getUptime() string {
	return time.Since(startTime).String()
}

// PeriodicHealthCheck runs health checks periodically and caches the result
func (h *Checker) PeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := h.CheckAll()

			cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			healthModels := make([]models.SystemHealth, len(health.Services))
			for i, service := range health.Services {
				checkedAt, _ := time.Parse(time.RFC3339, service.LastChecked)
				healthModels[i] = models.SystemHealth{
					ServiceName:    service.Name,
					Status:         service.Status,
					ResponseTimeMs: service.ResponseTime,
					ErrorMessage:   service.Error,
					CheckedAt:      checkedAt,
				}
			}

			if err := h.cache.CacheSystemHealth(cacheCtx, healthModels, 2*interval); err != nil {
				h.logger.WithError(err).Error("Failed to cache health status")
			}
			cancel()

			h.logger.WithField("status", health.Status).Debug("Periodic health check completed")
		}
	}
}
