package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prospecta/company-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCompanies(t *testing.T) {
	rows := append(stubRows(60, "SP"), stubRows(5, "RJ")...)
	router := newTestRouter(newTestService(&stubRegistry{rows: rows}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies?uf=sp&limit=25&page=2")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CompanySearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 25)
	assert.Equal(t, models.PageDescriptor{
		Page:        2,
		Limit:       25,
		Total:       60,
		TotalPages:  3,
		HasNext:     true,
		HasPrev:     true,
		CountSource: models.CountSourceCount,
	}, resp.Pagination)
}

func TestSearchCompanies_Defaults(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(10, "SP")}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CompanySearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 25, resp.Pagination.Limit)
	assert.Equal(t, int64(10), resp.Pagination.Total)
	assert.Equal(t, models.CountSourcePage, resp.Pagination.CountSource)
}

func TestSearchCompanies_LimitClamped(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(150, "SP")}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies?limit=500")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CompanySearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 100)
	assert.Equal(t, 100, resp.Pagination.Limit)
}

func TestSearchCompanies_UnknownSegment(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(30, "SP")}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies?segmento=unknown-segment-xyz")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CompanySearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rows)
	assert.Equal(t, int64(0), resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasNext)
}

func TestSearchCompanies_InvalidPagination(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{}, testTaxonomy()), nil)

	for _, url := range []string{
		"/v1/companies?page=0",
		"/v1/companies?page=abc",
		"/v1/companies?limit=-1",
	} {
		w := doGet(router, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
}

func TestSearchCompanies_Timeout(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(5, "SP"), delay: 5 * time.Second}, testTaxonomy()), nil)

	start := time.Now()
	w := doGet(router, "/v1/companies?uf=SP")

	assert.Less(t, time.Since(start), 3*time.Second)
	require.Equal(t, http.StatusRequestTimeout, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrTimeout.Error(), resp.Error)
}

func TestSearchCompanies_QueryErrorIsGeneric(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{
		fetchErr: errors.New(`syntax error at or near "FROM companies"`),
	}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies?uf=SP")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to search companies", resp.Error)
	assert.NotContains(t, w.Body.String(), "FROM companies")
	assert.NotContains(t, w.Body.String(), "syntax")
}

func TestExportCompanies(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(100, "SP")}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies/export?uf=SP&max_rows=10")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "pagination")

	var export models.CompanyExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))
	assert.Len(t, export.Rows, 10)

	// Clamped to the export ceiling
	w = doGet(router, "/v1/companies/export?max_rows=100000")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))
	assert.Len(t, export.Rows, 40)

	w = doGet(router, "/v1/companies/export?max_rows=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCompanyByCNPJ(t *testing.T) {
	rows := append(stubRows(3, "SP"), models.CompanyRecord{
		CNPJ:               "11222333000181",
		CompanyName:        "ACME COMERCIO LTDA",
		State:              "RJ",
		HeadquartersBranch: models.EstablishmentHeadquarters,
	})
	router := newTestRouter(newTestService(&stubRegistry{rows: rows}, testTaxonomy()), nil)

	w := doGet(router, "/v1/companies/11.222.333-0001.81")
	require.Equal(t, http.StatusOK, w.Code)
	var company models.CompanyRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.Equal(t, "ACME COMERCIO LTDA", company.CompanyName)

	w = doGet(router, "/v1/companies/11.222.333%2F0001-81")
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(router, "/v1/companies/11444777000161")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/v1/companies/12345678000100")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchCompanies_CallerGoneIsNotAServerError(t *testing.T) {
	router := newTestRouter(newTestService(&stubRegistry{rows: stubRows(5, "SP"), delay: 5 * time.Second}, testTaxonomy()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/v1/companies?uf=SP", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, statusClientClosedRequest, w.Code)
	assert.Empty(t, w.Body.String())
}
