package handler

import (
	"net/http"

	"sui-transfer-gateway/config"
	"sui-transfer-gateway/internal/adapter/http/dto"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/internal/core/units"
	"sui-transfer-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns a handler that pings every dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// Network handles GET /api/v1/network.
func Network(cfg config.NetworkConfig) gin.HandlerFunc {
	body := dto.NetworkResponse{
		Network:      cfg.Active,
		CoinType:     cfg.CoinType,
		ExplorerBase: cfg.ExplorerBase,
		Decimals:     int(units.Decimals),
	}
	return func(c *gin.Context) {
		response.OK(c, body)
	}
}
