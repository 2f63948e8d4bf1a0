package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"go.uber.org/zap"
)

// statusClientClosedRequest is the nginx convention for a caller that went away
const statusClientClosedRequest = 499

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// respondError maps the search error classes to HTTP statuses. Registry
// failures are reported generically; their detail only reaches the logs.
func respondError(c *gin.Context, logger *logging.SafeLogger, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
	case errors.Is(err, models.ErrCanceled):
		logger.Debug("request canceled by caller", zap.Error(err))
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.Is(err, models.ErrTimeout):
		logger.Warn("search exceeded its budget", zap.Error(err))
		c.JSON(http.StatusRequestTimeout, ErrorResponse{Error: models.ErrTimeout.Error()})
	default:
		logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
