package search

import (
	"strings"

	"github.com/prospecta/company-search/internal/models"
)

// Page limits
const (
	DefaultPageLimit = 25
	MaxPageLimit     = 100
	cnpjLength       = 14
)

// Shape selects how a backend renders a query
type Shape string

const (
	// ShapeStateFastPath is the headquarters-by-state query served by a dedicated index
	ShapeStateFastPath Shape = "state_fast_path"
	// ShapeGeneral is the headquarters base plus any number of predicates
	ShapeGeneral Shape = "general"
)

// Query is a composed registry read, ordered by legal name ascending
type Query struct {
	Shape      Shape
	Predicates []Predicate
	Limit      int
	Offset     int
}

// Key identifies the matched row set, independent of paging
func (q Query) Key() string {
	parts := make([]string, 0, len(q.Predicates))
	for _, p := range q.Predicates {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " AND ")
}

// Compose builds the page query for fs. The limit is clamped to
// [1, MaxPageLimit] and a negative offset to zero.
func Compose(fs models.FilterSet, limit, offset int) Query {
	limit = clampLimit(limit, MaxPageLimit)
	if offset < 0 {
		offset = 0
	}

	if fs.StateOnly() {
		return Query{
			Shape:      ShapeStateFastPath,
			Predicates: []Predicate{headquartersOnly(), Eq(ColumnState, fs.State)},
			Limit:      limit,
			Offset:     offset,
		}
	}
	return composeGeneral(fs, limit, offset)
}

// ComposeExport builds an unpaginated query capped at maxRows
func ComposeExport(fs models.FilterSet, maxRows int) Query {
	if maxRows < 1 {
		maxRows = 1
	}
	return composeGeneral(fs, maxRows, 0)
}

func composeGeneral(fs models.FilterSet, limit, offset int) Query {
	predicates := []Predicate{headquartersOnly()}

	if fs.State != "" {
		predicates = append(predicates, Eq(ColumnState, fs.State))
	}
	if fs.City != "" {
		predicates = append(predicates, Contains(ColumnCity, fs.City))
	}
	if fs.CNPJ != "" {
		if len(fs.CNPJ) == cnpjLength {
			predicates = append(predicates, Eq(ColumnCNPJ, fs.CNPJ))
		} else {
			predicates = append(predicates, Contains(ColumnCNPJ, fs.CNPJ))
		}
	}
	if fs.CompanyName != "" {
		predicates = append(predicates, Contains(ColumnCompanyName, fs.CompanyName))
	}
	if fs.TradeName != "" {
		predicates = append(predicates, Contains(ColumnTradeName, fs.TradeName))
	}
	if fs.Status != "" {
		predicates = append(predicates, Eq(ColumnStatus, fs.Status))
	}
	if fs.PrimaryCNAE != "" {
		predicates = append(predicates, Eq(ColumnPrimaryCNAE, fs.PrimaryCNAE))
	}
	// An unknown segment still constrains: IN over an empty set matches nothing
	if fs.HasSegment() {
		predicates = append(predicates, In(ColumnPrimaryCNAE, fs.SegmentCNAEs))
	}

	return Query{
		Shape:      ShapeGeneral,
		Predicates: predicates,
		Limit:      limit,
		Offset:     offset,
	}
}

func headquartersOnly() Predicate {
	return Eq(ColumnHeadquarters, "1")
}

func clampLimit(limit, ceiling int) int {
	if limit < 1 {
		return 1
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}
