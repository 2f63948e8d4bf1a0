package search

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prospecta/company-search/internal/models"
)

// memoryRegistry evaluates typed predicates over an in-memory table
type memoryRegistry struct {
	records    []models.CompanyRecord
	fetchDelay time.Duration
	countDelay time.Duration
	fetchErr   error
	countErr   error
	openErr    error

	opened    atomic.Int32
	closed    atomic.Int32
	counts    atomic.Int32
	cancelled atomic.Int32
}

func (r *memoryRegistry) Name() string { return "memory" }

func (r *memoryRegistry) Open(context.Context) (Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.opened.Add(1)
	return &memorySession{registry: r}, nil
}

type memorySession struct {
	registry *memoryRegistry
}

func (s *memorySession) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		s.registry.cancelled.Add(1)
		return ctx.Err()
	}
}

func (s *memorySession) Fetch(ctx context.Context, q Query) ([]models.CompanyRecord, error) {
	if err := s.wait(ctx, s.registry.fetchDelay); err != nil {
		return nil, err
	}
	if s.registry.fetchErr != nil {
		return nil, s.registry.fetchErr
	}

	matched := s.registry.match(q)
	if q.Offset >= len(matched) {
		return nil, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	return matched[q.Offset:end], nil
}

func (s *memorySession) Count(ctx context.Context, q Query) (int64, error) {
	s.registry.counts.Add(1)
	if err := s.wait(ctx, s.registry.countDelay); err != nil {
		return 0, err
	}
	if s.registry.countErr != nil {
		return 0, s.registry.countErr
	}
	return int64(len(s.registry.match(q))), nil
}

func (s *memorySession) Close(context.Context) error {
	s.registry.closed.Add(1)
	return nil
}

func (r *memoryRegistry) match(q Query) []models.CompanyRecord {
	matched := make([]models.CompanyRecord, 0)
	for _, record := range r.records {
		ok := true
		for _, p := range q.Predicates {
			if !evaluate(p, record) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, record)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CompanyName != matched[j].CompanyName {
			return matched[i].CompanyName < matched[j].CompanyName
		}
		return matched[i].CNPJ < matched[j].CNPJ
	})
	return matched
}

func evaluate(p Predicate, record models.CompanyRecord) bool {
	var value string
	switch p.Column {
	case ColumnHeadquarters:
		value = strconv.Itoa(record.HeadquartersBranch)
	case ColumnState:
		value = record.State
	case ColumnCity:
		value = record.CityName
	case ColumnCNPJ:
		value = record.CNPJ
	case ColumnCompanyName:
		value = record.CompanyName
	case ColumnTradeName:
		value = record.TradeName
	case ColumnStatus:
		value = record.RegistrationStatus
	case ColumnPrimaryCNAE:
		value = record.PrimaryCNAE
	}

	switch p.Operator {
	case OpEq:
		return value == p.Value
	case OpContains:
		return strings.Contains(value, p.Value)
	case OpIn:
		return slices.Contains(p.Values, value)
	}
	return false
}

// testRecords builds 120 SP headquarters, 30 SP branches and 40 RJ headquarters
func testRecords() []models.CompanyRecord {
	records := make([]models.CompanyRecord, 0, 190)
	add := func(i int, state, city string, branch int) {
		cnae := "6201501"
		if i%3 == 0 {
			cnae = "8610101"
		}
		records = append(records, models.CompanyRecord{
			CNPJ:               fmt.Sprintf("%08d0001%02d", 10000000+i, i%100),
			CompanyName:        fmt.Sprintf("EMPRESA %03d %s LTDA", (i*37)%191, state),
			TradeName:          fmt.Sprintf("FANTASIA %03d", i),
			RegistrationStatus: "02",
			State:              state,
			CityCode:           "3550308",
			CityName:           city,
			PrimaryCNAE:        cnae,
			HeadquartersBranch: branch,
		})
	}

	i := 0
	for ; i < 120; i++ {
		add(i, "SP", "SAO PAULO", models.EstablishmentHeadquarters)
	}
	for ; i < 150; i++ {
		add(i, "SP", "SAO PAULO", models.EstablishmentBranch)
	}
	for ; i < 190; i++ {
		add(i, "RJ", "RIO DE JANEIRO", models.EstablishmentHeadquarters)
	}

	records = append(records, models.CompanyRecord{
		CNPJ:               "12345678000190",
		CompanyName:        "ACME COMERCIO LTDA",
		TradeName:          "ACME",
		RegistrationStatus: "02",
		State:              "MG",
		CityCode:           "3106200",
		CityName:           "BELO HORIZONTE",
		PrimaryCNAE:        "4771701",
		HeadquartersBranch: models.EstablishmentHeadquarters,
	}, models.CompanyRecord{
		CNPJ:               "11222333000181",
		CompanyName:        "CLINICA EXEMPLO SA",
		TradeName:          "CLINICA EXEMPLO",
		RegistrationStatus: "02",
		State:              "MG",
		CityCode:           "3106200",
		CityName:           "BELO HORIZONTE",
		PrimaryCNAE:        "8630503",
		HeadquartersBranch: models.EstablishmentHeadquarters,
	})
	return records
}
