package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/taxonomy"
	"github.com/prospecta/company-search/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TaxonomyHandlers serves the segment taxonomy read-only
type TaxonomyHandlers struct {
	lookup *taxonomy.Lookup
	logger *logging.SafeLogger
}

// NewTaxonomyHandlers creates a new taxonomy handlers instance
func NewTaxonomyHandlers(lookup *taxonomy.Lookup, logger *logging.SafeLogger) *TaxonomyHandlers {
	return &TaxonomyHandlers{
		lookup: lookup,
		logger: logger,
	}
}

// ListSegments godoc
// @Summary Listar segmentos
// @Description Lista os segmentos de negócio disponíveis para o filtro "segmento", com a quantidade de CNAEs de cada um.
// @Tags taxonomy
// @Produce json
// @Success 200 {object} models.SegmentListResponse "Segmentos obtidos com sucesso"
// @Router /segments [get]
func (h *TaxonomyHandlers) ListSegments(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "ListSegments")
	defer span.End()

	segments := h.lookup.ListSegments()
	span.SetAttributes(attribute.Int("segments", len(segments)))

	c.JSON(http.StatusOK, models.SegmentListResponse{Segments: segments})
}

// GetSegmentCNAEs godoc
// @Summary Listar CNAEs de um segmento
// @Description Lista os CNAEs que compõem um segmento. Um segmento desconhecido retorna lista vazia.
// @Tags taxonomy
// @Produce json
// @Param segment path string true "Nome do segmento (ex: saude)"
// @Success 200 {object} models.IndustryCodeListResponse "CNAEs do segmento"
// @Router /segments/{segment}/cnaes [get]
func (h *TaxonomyHandlers) GetSegmentCNAEs(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "GetSegmentCNAEs")
	defer span.End()

	segment := c.Param("segment")
	span.SetAttributes(attribute.String("segment", segment))

	codes, ok := h.lookup.SegmentCodes(segment)
	if !ok {
		h.logger.Debug("unknown segment requested", zap.String("segment", segment))
		codes = []models.IndustryCode{}
	}
	c.JSON(http.StatusOK, models.IndustryCodeListResponse{Codes: codes})
}

// SearchCNAEs godoc
// @Summary Buscar CNAEs
// @Description Busca CNAEs por trecho do código ou da descrição (sem diferenciar maiúsculas ou acentos). Retorna no máximo 50 resultados.
// @Tags taxonomy
// @Produce json
// @Param q query string true "Termo de busca"
// @Success 200 {object} models.IndustryCodeListResponse "CNAEs encontrados"
// @Router /cnaes [get]
func (h *TaxonomyHandlers) SearchCNAEs(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SearchCNAEs")
	defer span.End()

	_, searchSpan := utils.TraceBusinessLogic(ctx, "search_cnaes")
	codes := h.lookup.Search(c.Query("q"))
	utils.AddSpanAttribute(searchSpan, "results", len(codes))
	searchSpan.End()

	c.JSON(http.StatusOK, models.IndustryCodeListResponse{Codes: codes})
}

// GetCNAE godoc
// @Summary Obter CNAE
// @Description Recupera a descrição e o segmento de um CNAE.
// @Tags taxonomy
// @Produce json
// @Param code path string true "Código CNAE; pontuação opcional, com a barra codificada como %2F (ex: 8610-1%2F01)"
// @Success 200 {object} models.IndustryCode "CNAE encontrado"
// @Failure 404 {object} ErrorResponse "CNAE não encontrado"
// @Router /cnaes/{code} [get]
func (h *TaxonomyHandlers) GetCNAE(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "GetCNAE")
	defer span.End()

	code := c.Param("code")
	span.SetAttributes(attribute.String("cnae", code))

	info, ok := h.lookup.CodeInfo(code)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "CNAE not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}
