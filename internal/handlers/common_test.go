package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/redisclient"
	"github.com/prospecta/company-search/internal/search"
	"github.com/prospecta/company-search/internal/taxonomy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRegistry serves a fixed table, honouring equality predicates only
type stubRegistry struct {
	rows     []models.CompanyRecord
	delay    time.Duration
	fetchErr error
	openErr  error
}

func (r *stubRegistry) Name() string { return "stub" }

func (r *stubRegistry) Open(context.Context) (search.Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return stubSession{registry: r}, nil
}

type stubSession struct {
	registry *stubRegistry
}

func (s stubSession) matching(q search.Query) []models.CompanyRecord {
	var out []models.CompanyRecord
	for _, row := range s.registry.rows {
		keep := true
		for _, p := range q.Predicates {
			switch {
			case p.Column == search.ColumnState && p.Operator == search.OpEq:
				keep = keep && row.State == p.Value
			case p.Column == search.ColumnCNPJ && p.Operator == search.OpEq:
				keep = keep && row.CNPJ == p.Value
			case p.Operator == search.OpIn:
				keep = keep && len(p.Values) > 0
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func (s stubSession) Fetch(ctx context.Context, q search.Query) ([]models.CompanyRecord, error) {
	if s.registry.delay > 0 {
		select {
		case <-time.After(s.registry.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.registry.fetchErr != nil {
		return nil, s.registry.fetchErr
	}
	rows := s.matching(q)
	if q.Offset >= len(rows) {
		return nil, nil
	}
	return rows[q.Offset:min(q.Offset+q.Limit, len(rows))], nil
}

func (s stubSession) Count(_ context.Context, q search.Query) (int64, error) {
	return int64(len(s.matching(q))), nil
}

func (s stubSession) Close(context.Context) error { return nil }

func stubRows(n int, state string) []models.CompanyRecord {
	rows := make([]models.CompanyRecord, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.CompanyRecord{
			CNPJ:               fmt.Sprintf("%08d000199", 50000000+i),
			CompanyName:        fmt.Sprintf("EMPRESA %03d LTDA", i),
			RegistrationStatus: "02",
			State:              state,
			PrimaryCNAE:        "6201501",
			HeadquartersBranch: models.EstablishmentHeadquarters,
		})
	}
	return rows
}

func testTaxonomy() *taxonomy.Lookup {
	return taxonomy.NewFromSegments(taxonomy.Segments{
		"saude": {
			{Code: "8610-1/01", Description: "Atividades de atendimento hospitalar"},
			{Code: "8630-5/04", Description: "Atividade odontológica"},
		},
		"tecnologia": {
			{Code: "6201-5/01", Description: "Desenvolvimento de programas de computador sob encomenda"},
		},
	})
}

func newTestService(registry search.Registry, lookup *taxonomy.Lookup) *search.Service {
	return search.NewService(registry, lookup, nil, search.Options{
		SearchTimeout: time.Second,
		CountTimeout:  200 * time.Millisecond,
		ExportTimeout: time.Second,
		ExportMaxRows: 40,
	}, logging.NewNop())
}

func newTestRouter(service *search.Service, cache *redisclient.Client) *gin.Engine {
	companies := NewCompanyHandlers(service, logging.NewNop())
	taxonomyHandlers := NewTaxonomyHandlers(service.Taxonomy(), logging.NewNop())
	health := NewHealthHandlers(service, cache, logging.NewNop())

	router := gin.New()
	router.UseRawPath = true
	v1 := router.Group("/v1")
	v1.GET("/health", health.HealthCheck)
	v1.GET("/companies", companies.SearchCompanies)
	v1.GET("/companies/export", companies.ExportCompanies)
	v1.GET("/companies/:cnpj", companies.GetCompanyByCNPJ)
	v1.GET("/segments", taxonomyHandlers.ListSegments)
	v1.GET("/segments/:segment/cnaes", taxonomyHandlers.GetSegmentCNAEs)
	v1.GET("/cnaes", taxonomyHandlers.SearchCNAEs)
	v1.GET("/cnaes/:code", taxonomyHandlers.GetCNAE)
	return router
}

func doGet(router *gin.Engine, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
