package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/observability"
	"github.com/prospecta/company-search/internal/search"
	"github.com/prospecta/company-search/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CompanyHandlers handles company search HTTP requests
type CompanyHandlers struct {
	service *search.Service
	logger  *logging.SafeLogger
}

// NewCompanyHandlers creates a new company handlers instance
func NewCompanyHandlers(service *search.Service, logger *logging.SafeLogger) *CompanyHandlers {
	return &CompanyHandlers{
		service: service,
		logger:  logger,
	}
}

// rawFilters collects the filter query parameters
func rawFilters(c *gin.Context) map[string]string {
	raw := make(map[string]string, len(search.FilterFields))
	for _, field := range search.FilterFields {
		if value, ok := c.GetQuery(field); ok {
			raw[field] = value
		}
	}
	return raw
}

// SearchCompanies godoc
// @Summary Buscar empresas
// @Description Busca paginada de empresas (apenas matrizes) com filtros combinados. Resultados ordenados por razão social. Quando a página retornada está cheia, o total pode ser uma estimativa (total_is_estimate).
// @Tags companies
// @Accept json
// @Produce json
// @Param uf query string false "UF (ex: SP)"
// @Param municipio query string false "Trecho do nome do município"
// @Param cnpj query string false "CNPJ completo ou parcial (pontuação ignorada)"
// @Param razao_social query string false "Trecho da razão social"
// @Param nome_fantasia query string false "Trecho do nome fantasia"
// @Param situacao_cadastral query string false "Código da situação cadastral (ex: 02)"
// @Param cnae query string false "CNAE fiscal (ex: 8610-1/01)"
// @Param segmento query string false "Segmento de negócio (expande para a lista de CNAEs)"
// @Param page query int false "Número da página (padrão: 1)" minimum(1)
// @Param limit query int false "Itens por página (padrão: 25, máximo: 100)" minimum(1)
// @Success 200 {object} models.CompanySearchResponse "Página de empresas obtida com sucesso"
// @Failure 400 {object} ErrorResponse "Parâmetros de paginação inválidos"
// @Failure 408 {object} ErrorResponse "Consulta muito ampla ou lenta, adicione mais filtros"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /companies [get]
func (h *CompanyHandlers) SearchCompanies(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SearchCompanies")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "search_companies"),
		attribute.String("service", "company_search"),
	)

	// Parse pagination parameters with tracing
	ctx, paginationSpan := utils.TraceInputParsing(ctx, "pagination_parameters")
	page, limit, err := search.ParsePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		utils.RecordErrorInSpan(paginationSpan, err, map[string]interface{}{
			"page_param":  c.Query("page"),
			"limit_param": c.Query("limit"),
		})
		paginationSpan.End()
		h.logger.Debug("invalid pagination parameters", zap.Error(err))
		respondError(c, h.logger, err, "Failed to search companies")
		return
	}
	utils.AddSpanAttribute(paginationSpan, "page", page)
	utils.AddSpanAttribute(paginationSpan, "limit", limit)
	paginationSpan.End()

	raw := rawFilters(c)

	ctx, searchSpan := utils.TraceBusinessLogic(ctx, "search_companies")
	result, err := h.service.Search(ctx, raw, page, limit)
	if err != nil {
		utils.RecordErrorInSpan(searchSpan, err, map[string]interface{}{
			"filters": len(raw),
		})
		searchSpan.End()
		respondError(c, h.logger, err, "Failed to search companies")
		return
	}
	utils.AddSpanAttribute(searchSpan, "rows_returned", len(result.Rows))
	utils.AddSpanAttribute(searchSpan, "count_source", result.Pagination.CountSource)
	searchSpan.End()

	// Serialize response with tracing
	_, responseSpan := utils.TraceResponseSerialization(ctx, "success")
	c.JSON(http.StatusOK, result)
	responseSpan.End()

	h.logger.Debug("SearchCompanies completed",
		zap.Int("page", page),
		zap.Int("limit", limit),
		zap.Int("filters", len(raw)),
		zap.Int("rows_returned", len(result.Rows)),
		zap.Int64("total", result.Pagination.Total),
		zap.Bool("total_is_estimate", result.Pagination.TotalIsEstimate),
		zap.Duration("total_duration", time.Since(startTime)))
}

// ExportCompanies godoc
// @Summary Exportar empresas
// @Description Retorna até max_rows empresas (padrão e máximo definidos por EXPORT_MAX_ROWS) com os mesmos filtros da busca, sem metadados de paginação.
// @Tags companies
// @Accept json
// @Produce json
// @Param uf query string false "UF (ex: SP)"
// @Param municipio query string false "Trecho do nome do município"
// @Param cnpj query string false "CNPJ completo ou parcial"
// @Param razao_social query string false "Trecho da razão social"
// @Param nome_fantasia query string false "Trecho do nome fantasia"
// @Param situacao_cadastral query string false "Código da situação cadastral"
// @Param cnae query string false "CNAE fiscal"
// @Param segmento query string false "Segmento de negócio"
// @Param max_rows query int false "Quantidade máxima de linhas" minimum(1)
// @Success 200 {object} models.CompanyExportResponse "Empresas exportadas com sucesso"
// @Failure 400 {object} ErrorResponse "Parâmetro max_rows inválido"
// @Failure 408 {object} ErrorResponse "Consulta muito ampla ou lenta, adicione mais filtros"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /companies/export [get]
func (h *CompanyHandlers) ExportCompanies(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ExportCompanies")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "export_companies"),
		attribute.String("service", "company_search"),
	)

	ctx, parseSpan := utils.TraceInputParsing(ctx, "export_parameters")
	maxRows, err := search.ParseExportCap(c.Query("max_rows"), h.service.ExportMaxRows())
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, map[string]interface{}{
			"max_rows_param": c.Query("max_rows"),
		})
		parseSpan.End()
		respondError(c, h.logger, err, "Failed to export companies")
		return
	}
	utils.AddSpanAttribute(parseSpan, "max_rows", maxRows)
	parseSpan.End()

	ctx, exportSpan := utils.TraceBusinessLogic(ctx, "export_companies")
	result, err := h.service.Export(ctx, rawFilters(c), maxRows)
	if err != nil {
		utils.RecordErrorInSpan(exportSpan, err, nil)
		exportSpan.End()
		respondError(c, h.logger, err, "Failed to export companies")
		return
	}
	utils.AddSpanAttribute(exportSpan, "rows_returned", len(result.Rows))
	exportSpan.End()

	_, responseSpan := utils.TraceResponseSerialization(ctx, "success")
	c.JSON(http.StatusOK, result)
	responseSpan.End()

	h.logger.Info("ExportCompanies completed",
		zap.Int("max_rows", maxRows),
		zap.Int("rows_returned", len(result.Rows)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// GetCompanyByCNPJ godoc
// @Summary Obter empresa por CNPJ
// @Description Recupera a matriz de uma empresa pelo CNPJ (14 dígitos, pontuação opcional).
// @Tags companies
// @Accept json
// @Produce json
// @Param cnpj path string true "CNPJ da empresa; pontuação opcional, com a barra codificada como %2F"
// @Success 200 {object} models.CompanyRecord "Empresa obtida com sucesso"
// @Failure 400 {object} ErrorResponse "Formato de CNPJ inválido"
// @Failure 404 {object} ErrorResponse "Empresa não encontrada"
// @Failure 408 {object} ErrorResponse "Tempo de consulta excedido"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /companies/{cnpj} [get]
func (h *CompanyHandlers) GetCompanyByCNPJ(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetCompanyByCNPJ")
	defer span.End()

	cnpj := utils.DigitsOnly(c.Param("cnpj"))
	span.SetAttributes(
		attribute.String("cnpj", observability.MaskCNPJ(cnpj)),
		attribute.String("operation", "get_company_by_cnpj"),
		attribute.String("service", "company_search"),
	)

	// Validate CNPJ with tracing
	ctx, cnpjSpan := utils.TraceInputValidation(ctx, "cnpj_format", "cnpj")
	if !utils.ValidateCNPJ(cnpj) {
		cnpjSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid CNPJ format"})
		return
	}
	cnpjSpan.End()

	ctx, querySpan := utils.TraceDatabaseFind(ctx, "companies", "cnpj")
	company, err := h.service.GetByCNPJ(ctx, cnpj)
	if err != nil {
		utils.RecordErrorInSpan(querySpan, err, map[string]interface{}{
			"cnpj": observability.MaskCNPJ(cnpj),
		})
		querySpan.End()
		respondError(c, h.logger, err, "Failed to retrieve company")
		return
	}
	querySpan.End()

	_, responseSpan := utils.TraceResponseSerialization(ctx, "success")
	c.JSON(http.StatusOK, company)
	responseSpan.End()
}
