package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prospecta/company-search/internal/search"
)

const selectColumns = "cnpj, razao_social, nome_fantasia, situacao_cadastral, uf, codigo_municipio, municipio, cnae_fiscal, matriz_filial"

const orderBy = " ORDER BY razao_social ASC, cnpj ASC"

// stateFastPathSQL is served by idx_companies_hq_uf_razao
const stateFastPathSQL = "SELECT " + selectColumns +
	" FROM companies WHERE matriz_filial = 1 AND uf = $1" + orderBy + " LIMIT $2 OFFSET $3"

// columnNames maps query columns to table columns
var columnNames = map[search.Column]string{
	search.ColumnHeadquarters: "matriz_filial",
	search.ColumnState:        "uf",
	search.ColumnCity:         "municipio",
	search.ColumnCNPJ:         "cnpj",
	search.ColumnCompanyName:  "razao_social",
	search.ColumnTradeName:    "nome_fantasia",
	search.ColumnStatus:       "situacao_cadastral",
	search.ColumnPrimaryCNAE:  "cnae_fiscal",
}

// likeEscaper escapes LIKE wildcards so user input only matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Statement is parameterized SQL ready to run
type Statement struct {
	SQL  string
	Args []any
}

// RenderFetch renders the page query of q
func RenderFetch(q search.Query) (Statement, error) {
	if q.Shape == search.ShapeStateFastPath {
		state, ok := fastPathState(q)
		if !ok {
			return Statement{}, fmt.Errorf("state fast path without a state predicate")
		}
		return Statement{SQL: stateFastPathSQL, Args: []any{state, q.Limit, q.Offset}}, nil
	}

	where, args, err := renderWhere(q.Predicates)
	if err != nil {
		return Statement{}, err
	}

	args = append(args, q.Limit, q.Offset)
	sql := "SELECT " + selectColumns + " FROM companies" + where + orderBy +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return Statement{SQL: sql, Args: args}, nil
}

// RenderCount renders the exact count of the rows matched by q
func RenderCount(q search.Query) (Statement, error) {
	where, args, err := renderWhere(q.Predicates)
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: "SELECT count(*) FROM companies" + where, Args: args}, nil
}

func renderWhere(predicates []search.Predicate) (string, []any, error) {
	if len(predicates) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(predicates))
	args := make([]any, 0, len(predicates))
	for _, p := range predicates {
		column, ok := columnNames[p.Column]
		if !ok {
			return "", nil, fmt.Errorf("unknown column %q", p.Column)
		}
		placeholder := "$" + strconv.Itoa(len(args)+1)

		switch p.Operator {
		case search.OpEq:
			value, err := columnValue(p)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, column+" = "+placeholder)
			args = append(args, value)
		case search.OpContains:
			clauses = append(clauses, column+" LIKE "+placeholder+` ESCAPE '\'`)
			args = append(args, "%"+likeEscaper.Replace(p.Value)+"%")
		case search.OpIn:
			values := p.Values
			if values == nil {
				values = []string{}
			}
			clauses = append(clauses, column+" = ANY("+placeholder+")")
			args = append(args, values)
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Operator)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// columnValue converts the value of integer columns
func columnValue(p search.Predicate) (any, error) {
	if p.Column != search.ColumnHeadquarters {
		return p.Value, nil
	}
	value, err := strconv.Atoi(p.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid headquarters flag %q: %w", p.Value, err)
	}
	return value, nil
}

func fastPathState(q search.Query) (string, bool) {
	for _, p := range q.Predicates {
		if p.Column == search.ColumnState && p.Operator == search.OpEq {
			return p.Value, true
		}
	}
	return "", false
}
