package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/redisclient"
	"github.com/prospecta/company-search/internal/search"
	"github.com/prospecta/company-search/internal/utils"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandlers reports dependency health
type HealthHandlers struct {
	service *search.Service
	redis   *redisclient.Client
	logger  *logging.SafeLogger
}

// NewHealthHandlers creates a new health handlers instance. A nil redis
// client means the count cache is disabled.
func NewHealthHandlers(service *search.Service, redis *redisclient.Client, logger *logging.SafeLogger) *HealthHandlers {
	return &HealthHandlers{
		service: service,
		redis:   redis,
		logger:  logger,
	}
}

// HealthCheck godoc
// @Summary Verificar saúde do serviço
// @Description Verifica a conexão com o cadastro de empresas, o cache de contagens (Redis) e o carregamento da taxonomia de segmentos. Taxonomia vazia ou cache indisponível deixam o serviço "degraded".
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Serviço saudável ou degradado"
// @Failure 503 {object} HealthResponse "Cadastro de empresas indisponível"
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	pingCtx, registrySpan := utils.TraceEndpointStep(pingCtx, "registry_ping", nil)
	if err := h.service.Ping(pingCtx); err != nil {
		utils.RecordErrorInSpan(registrySpan, err, nil)
		h.logger.Error("registry health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Services["registry"] = "unhealthy"
	} else {
		health.Services["registry"] = "healthy"
	}
	registrySpan.End()

	if h.service.Taxonomy().Loaded() {
		health.Services["taxonomy"] = "loaded"
	} else {
		health.Services["taxonomy"] = "empty"
		if health.Status == "healthy" {
			health.Status = "degraded"
		}
	}

	// The count cache is optional; losing it only slows counting down
	if h.redis == nil {
		health.Services["count_cache"] = "disabled"
	} else {
		cacheCtx, cacheSpan := utils.TraceEndpointStep(ctx, "count_cache_ping", nil)
		cacheCtx, cacheCancel := context.WithTimeout(cacheCtx, healthCheckTimeout)
		if err := h.redis.Ping(cacheCtx).Err(); err != nil {
			utils.RecordErrorInSpan(cacheSpan, err, nil)
			h.logger.Warn("count cache health check failed", zap.Error(err))
			health.Services["count_cache"] = "unhealthy"
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		} else {
			health.Services["count_cache"] = "healthy"
		}
		cacheCancel()
		cacheSpan.End()
	}

	if health.Status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
