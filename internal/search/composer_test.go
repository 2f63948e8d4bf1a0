package search

import (
	"testing"

	"github.com/prospecta/company-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_StateFastPath(t *testing.T) {
	q := Compose(models.FilterSet{State: "SP"}, 50, 0)

	assert.Equal(t, ShapeStateFastPath, q.Shape)
	assert.Equal(t, []Predicate{
		Eq(ColumnHeadquarters, "1"),
		Eq(ColumnState, "SP"),
	}, q.Predicates)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestCompose_GeneralPathOrder(t *testing.T) {
	fs := models.FilterSet{
		State:        "SP",
		City:         "SAO PAULO",
		CNPJ:         "12345678",
		CompanyName:  "ACME",
		TradeName:    "LOJA",
		Status:       "02",
		PrimaryCNAE:  "4771701",
		Segment:      "saude",
		SegmentCNAEs: []string{"8610101", "8630503"},
	}

	q := Compose(fs, 25, 50)

	assert.Equal(t, ShapeGeneral, q.Shape)
	assert.Equal(t, []Predicate{
		Eq(ColumnHeadquarters, "1"),
		Eq(ColumnState, "SP"),
		Contains(ColumnCity, "SAO PAULO"),
		Contains(ColumnCNPJ, "12345678"),
		Contains(ColumnCompanyName, "ACME"),
		Contains(ColumnTradeName, "LOJA"),
		Eq(ColumnStatus, "02"),
		Eq(ColumnPrimaryCNAE, "4771701"),
		In(ColumnPrimaryCNAE, []string{"8610101", "8630503"}),
	}, q.Predicates)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, 50, q.Offset)
}

func TestCompose_EmptyFilterSet(t *testing.T) {
	q := Compose(models.FilterSet{}, 10, 0)

	assert.Equal(t, ShapeGeneral, q.Shape)
	assert.Equal(t, []Predicate{Eq(ColumnHeadquarters, "1")}, q.Predicates)
}

func TestCompose_FullCNPJIsEquality(t *testing.T) {
	q := Compose(models.FilterSet{CNPJ: "12345678000190"}, 10, 0)

	require.Len(t, q.Predicates, 2)
	assert.Equal(t, Eq(ColumnCNPJ, "12345678000190"), q.Predicates[1])
}

func TestCompose_EmptySegmentKeepsPredicate(t *testing.T) {
	q := Compose(models.FilterSet{Segment: "unknown-segment-xyz", SegmentCNAEs: []string{}}, 25, 0)

	require.Len(t, q.Predicates, 2)
	last := q.Predicates[1]
	assert.Equal(t, OpIn, last.Operator)
	assert.Equal(t, ColumnPrimaryCNAE, last.Column)
	assert.NotNil(t, last.Values)
	assert.Empty(t, last.Values)
}

func TestCompose_StateWithSegmentIsGeneral(t *testing.T) {
	q := Compose(models.FilterSet{State: "SP", Segment: "x", SegmentCNAEs: []string{}}, 25, 0)
	assert.Equal(t, ShapeGeneral, q.Shape)
}

func TestCompose_ClampsPaging(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"within range", 30, 60, 30, 60},
		{"limit above ceiling", 500, 0, MaxPageLimit, 0},
		{"limit below one", 0, 0, 1, 0},
		{"negative offset", 10, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compose(models.FilterSet{State: "RJ"}, tt.limit, tt.offset)
			if q.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.wantLimit)
			}
			if q.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", q.Offset, tt.wantOffset)
			}
		})
	}
}

func TestComposeExport(t *testing.T) {
	q := ComposeExport(models.FilterSet{State: "SP"}, 10000)

	assert.Equal(t, ShapeGeneral, q.Shape)
	assert.Equal(t, 10000, q.Limit)
	assert.Equal(t, 0, q.Offset)

	q = ComposeExport(models.FilterSet{}, 0)
	assert.Equal(t, 1, q.Limit)
}

func TestQueryKey(t *testing.T) {
	fast := Compose(models.FilterSet{State: "SP"}, 25, 0)
	general := composeGeneral(models.FilterSet{State: "SP"}, 100, 200)

	assert.Equal(t, fast.Key(), general.Key(), "paging and shape must not change the key")
	assert.Equal(t, "headquarters eq 1 AND state eq SP", fast.Key())

	segment := Compose(models.FilterSet{Segment: "x", SegmentCNAEs: []string{"1", "2"}}, 25, 0)
	assert.Equal(t, "headquarters eq 1 AND primary_cnae in [1,2]", segment.Key())
}

func TestIn_CopiesValues(t *testing.T) {
	values := []string{"1", "2"}
	p := In(ColumnPrimaryCNAE, values)
	values[0] = "9"

	assert.Equal(t, []string{"1", "2"}, p.Values)
}
