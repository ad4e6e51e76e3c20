package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BreakerReporter exposes the circuit breaker state of each AI provider.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	AIProviders map[string]string `json:"aiProviders,omitempty"`
	StoreDriver string            `json:"storeDriver"`
}

// getHealth godoc
// @Summary Show the status of the server
// @Description Reports liveness, the store driver and the circuit breaker state of each AI provider
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func getHealth(storeDriver string, breakers BreakerReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{Status: "ok", StoreDriver: storeDriver}
		if breakers != nil {
			resp.AIProviders = breakers.BreakerStates()
		}
		c.JSON(http.StatusOK, resp)
	}
}
