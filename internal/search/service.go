package search

import (
	"context"
	"fmt"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/observability"
	"github.com/prospecta/company-search/internal/taxonomy"
	"github.com/prospecta/company-search/internal/utils"
	"go.uber.org/zap"
)

// Options holds the search budgets
type Options struct {
	// SearchTimeout bounds a whole search (page fetch plus count)
	SearchTimeout time.Duration
	// CountTimeout bounds the exact count stage; must be shorter than SearchTimeout
	CountTimeout  time.Duration
	ExportTimeout time.Duration
	ExportMaxRows int
}

// Service runs searches and exports against the registry
type Service struct {
	taxonomy *taxonomy.Lookup
	executor *Executor
	counter  *Counter
	options  Options
	logger   *logging.SafeLogger
}

// NewService creates a new search service. cache may be nil.
func NewService(registry Registry, lookup *taxonomy.Lookup, cache CountCache, options Options, logger *logging.SafeLogger) *Service {
	if lookup == nil {
		lookup = taxonomy.NewFromSegments(nil)
	}
	executor := NewExecutor(registry, logger.Named("executor"))
	return &Service{
		taxonomy: lookup,
		executor: executor,
		counter:  NewCounter(executor, cache, options.CountTimeout, logger.Named("counter")),
		options:  options,
		logger:   logger,
	}
}

// Taxonomy returns the segment lookup used for filter expansion
func (s *Service) Taxonomy() *taxonomy.Lookup {
	return s.taxonomy
}

// ExportMaxRows returns the export row ceiling
func (s *Service) ExportMaxRows() int {
	return s.options.ExportMaxRows
}

// Search returns one page of companies matching raw. The fetch and count run
// sequentially under SearchTimeout; only the fetch can fail the search.
func (s *Service) Search(ctx context.Context, raw map[string]string, page, limit int) (*models.CompanySearchResponse, error) {
	if page < 1 || page > MaxPage {
		return nil, fmt.Errorf("%w: page out of range", models.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, s.options.SearchTimeout)
	defer cancel()

	filters := Normalize(raw, s.taxonomy)
	q := Compose(filters, limit, (page-1)*clampLimit(limit, MaxPageLimit))

	fetchCtx, fetchSpan := utils.TraceDatabaseFind(ctx, "companies", string(q.Shape))
	rows, err := s.executor.Execute(fetchCtx, q, s.options.SearchTimeout)
	if err != nil {
		utils.RecordErrorInSpan(fetchSpan, err, map[string]interface{}{
			"page":  page,
			"limit": q.Limit,
		})
		fetchSpan.End()
		return nil, err
	}
	utils.AddSpanAttribute(fetchSpan, "rows_returned", len(rows))
	fetchSpan.End()

	count := s.counter.Total(ctx, q, len(rows))
	pagination := Assemble(len(rows), count, page, q.Limit)

	s.logger.Debug("search completed",
		zap.String("shape", string(q.Shape)),
		zap.Int("page", page),
		zap.Int("limit", q.Limit),
		zap.Int("rows", len(rows)),
		zap.Int64("total", count.Total),
		zap.String("count_source", count.Source))

	return &models.CompanySearchResponse{
		Rows:       rows,
		Pagination: pagination,
	}, nil
}

// Export returns up to maxRows companies matching raw, without counting.
// maxRows is clamped to the configured export ceiling.
func (s *Service) Export(ctx context.Context, raw map[string]string, maxRows int) (*models.CompanyExportResponse, error) {
	if maxRows > s.options.ExportMaxRows {
		maxRows = s.options.ExportMaxRows
	}
	ctx, cancel := context.WithTimeout(ctx, s.options.ExportTimeout)
	defer cancel()

	filters := Normalize(raw, s.taxonomy)
	if filters.IsEmpty() {
		s.logger.Info("unfiltered export requested", zap.Int("max_rows", maxRows))
	}
	q := ComposeExport(filters, maxRows)

	rows, err := s.executor.Execute(ctx, q, s.options.ExportTimeout)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("export completed",
		zap.Int("max_rows", q.Limit),
		zap.Int("rows", len(rows)))

	return &models.CompanyExportResponse{Rows: rows}, nil
}

// GetByCNPJ returns the headquarters record of a CNPJ
func (s *Service) GetByCNPJ(ctx context.Context, cnpj string) (*models.CompanyRecord, error) {
	digits := utils.DigitsOnly(cnpj)
	if !utils.ValidateCNPJ(digits) {
		return nil, fmt.Errorf("%w: invalid CNPJ", models.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, s.options.SearchTimeout)
	defer cancel()

	q := Compose(models.FilterSet{CNPJ: digits}, 1, 0)
	rows, err := s.executor.Execute(ctx, q, s.options.SearchTimeout)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.Debug("company not found", zap.String("cnpj", observability.MaskCNPJ(digits)))
		return nil, fmt.Errorf("company %w", models.ErrNotFound)
	}
	return &rows[0], nil
}

// Ping checks that the registry is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.executor.Ping(ctx)
}
