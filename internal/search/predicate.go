// Package search composes, runs and paginates company registry queries.
//
// Raw criteria flow through Normalize, Compose, Executor.Execute,
// Counter.Total and Assemble. Queries are lists of typed predicates; each
// registry backend renders them into its own parameterized form, so user
// input never reaches query text.
package search

import (
	"strings"
)

// Column identifies a filterable registry attribute
type Column string

const (
	ColumnHeadquarters Column = "headquarters"
	ColumnState        Column = "state"
	ColumnCity         Column = "city"
	ColumnCNPJ         Column = "cnpj"
	ColumnCompanyName  Column = "company_name"
	ColumnTradeName    Column = "trade_name"
	ColumnStatus       Column = "status"
	ColumnPrimaryCNAE  Column = "primary_cnae"
)

// Operator is the comparison applied by a predicate
type Operator string

const (
	// OpEq matches the exact value
	OpEq Operator = "eq"
	// OpContains matches a substring of the attribute
	OpContains Operator = "contains"
	// OpIn matches any of Values. An empty Values matches nothing.
	OpIn Operator = "in"
)

// Predicate is one ANDed condition of a query
type Predicate struct {
	Column   Column
	Operator Operator
	Value    string
	Values   []string
}

// Eq builds an equality predicate
func Eq(column Column, value string) Predicate {
	return Predicate{Column: column, Operator: OpEq, Value: value}
}

// Contains builds a substring predicate
func Contains(column Column, value string) Predicate {
	return Predicate{Column: column, Operator: OpContains, Value: value}
}

// In builds a set-membership predicate
func In(column Column, values []string) Predicate {
	copied := make([]string, len(values))
	copy(copied, values)
	return Predicate{Column: column, Operator: OpIn, Values: copied}
}

// String renders the predicate for logs and cache keys
func (p Predicate) String() string {
	if p.Operator == OpIn {
		return string(p.Column) + " in [" + strings.Join(p.Values, ",") + "]"
	}
	return string(p.Column) + " " + string(p.Operator) + " " + p.Value
}
