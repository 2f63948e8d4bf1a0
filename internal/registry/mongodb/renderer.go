package mongodb

import (
	"fmt"
	"regexp"

	"github.com/prospecta/company-search/internal/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fieldNames maps query columns to document paths
var fieldNames = map[search.Column]string{
	search.ColumnHeadquarters: "matriz_filial.id",
	search.ColumnState:        "endereco.uf",
	search.ColumnCity:         "endereco.municipio_nome",
	search.ColumnCNPJ:         "cnpj",
	search.ColumnCompanyName:  "razao_social",
	search.ColumnTradeName:    "nome_fantasia",
	search.ColumnStatus:       "situacao_cadastral.id",
	search.ColumnPrimaryCNAE:  "cnae_fiscal",
}

// sortOrder is the registry order: legal name ascending
var sortOrder = bson.D{
	{Key: "razao_social", Value: 1},
	{Key: "cnpj", Value: 1},
}

// RenderFilter renders the predicates of q as a BSON filter. The state fast
// path renders a flat document matching idx_hq_state_company_name; every
// other query is an $and of single-field conditions.
func RenderFilter(q search.Query) (bson.D, error) {
	conditions := make(bson.A, 0, len(q.Predicates))
	flat := make(bson.D, 0, len(q.Predicates))

	for _, p := range q.Predicates {
		field, ok := fieldNames[p.Column]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", p.Column)
		}

		var condition bson.E
		switch p.Operator {
		case search.OpEq:
			condition = bson.E{Key: field, Value: p.Value}
		case search.OpContains:
			condition = bson.E{Key: field, Value: primitive.Regex{Pattern: regexp.QuoteMeta(p.Value)}}
		case search.OpIn:
			values := p.Values
			if values == nil {
				values = []string{}
			}
			condition = bson.E{Key: field, Value: bson.D{{Key: "$in", Value: values}}}
		default:
			return nil, fmt.Errorf("unsupported operator %q", p.Operator)
		}

		flat = append(flat, condition)
		conditions = append(conditions, bson.D{condition})
	}

	if q.Shape == search.ShapeStateFastPath || len(conditions) <= 1 {
		return flat, nil
	}
	return bson.D{{Key: "$and", Value: conditions}}, nil
}
