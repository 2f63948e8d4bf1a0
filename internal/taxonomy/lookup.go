// Package taxonomy maps business segments to CNAE industry-classification codes.
//
// A Lookup is built once at startup and is read-only afterwards, so it is safe
// for concurrent use without locking. A source that fails to load yields an
// empty Lookup: segment filtering is an optional refinement and must never
// keep the process from starting.
package taxonomy

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/utils"
	"go.uber.org/zap"
)

// MaxSearchResults caps the number of codes returned by Search
const MaxSearchResults = 50

// Segments maps a segment name to its ordered industry codes
type Segments map[string][]models.IndustryCode

// Source loads the segment taxonomy
type Source interface {
	Load(ctx context.Context) (Segments, error)
	Name() string
}

// Lookup is the read-only segment/code index
type Lookup struct {
	names    []string
	segments map[string][]models.IndustryCode
	byCode   map[string]models.IndustryCode
	ordered  []models.IndustryCode
}

// New loads the taxonomy from source. Load failures are logged and produce an
// empty Lookup.
func New(ctx context.Context, source Source, logger *logging.SafeLogger) *Lookup {
	segments, err := source.Load(ctx)
	if err != nil {
		logger.Error("failed to load segment taxonomy, segment filters will match nothing",
			zap.String("source", source.Name()),
			zap.Error(err))
		return NewFromSegments(nil)
	}

	lookup := NewFromSegments(segments)
	logger.Info("segment taxonomy loaded",
		zap.String("source", source.Name()),
		zap.Int("segments", len(lookup.names)),
		zap.Int("codes", len(lookup.byCode)))
	return lookup
}

// NewFromSegments builds a Lookup from in-memory data
func NewFromSegments(segments Segments) *Lookup {
	l := &Lookup{
		segments: make(map[string][]models.IndustryCode, len(segments)),
		byCode:   make(map[string]models.IndustryCode),
	}

	for rawName, codes := range segments {
		name := normalizeSegment(rawName)
		if name == "" {
			continue
		}
		for _, code := range codes {
			digits := utils.DigitsOnly(code.Code)
			if digits == "" {
				continue
			}
			l.segments[name] = append(l.segments[name], models.IndustryCode{
				Code:        digits,
				Description: strings.TrimSpace(code.Description),
				Segment:     name,
			})
		}
	}

	for name := range l.segments {
		l.names = append(l.names, name)
	}
	sort.Strings(l.names)

	// A code listed under several segments belongs to the first one by name
	for _, name := range l.names {
		for _, code := range l.segments[name] {
			l.ordered = append(l.ordered, code)
			if _, exists := l.byCode[code.Code]; !exists {
				l.byCode[code.Code] = code
			}
		}
	}

	return l
}

// Loaded reports whether any segment is available
func (l *Lookup) Loaded() bool {
	return len(l.names) > 0
}

// ListSegments returns every segment ordered by name
func (l *Lookup) ListSegments() []models.SegmentSummary {
	summaries := make([]models.SegmentSummary, 0, len(l.names))
	for _, name := range l.names {
		summaries = append(summaries, models.SegmentSummary{
			Name:      name,
			CodeCount: len(l.segments[name]),
		})
	}
	return summaries
}

// CodesForSegment returns the codes of a segment in taxonomy order. An unknown
// segment yields an empty, non-nil slice.
func (l *Lookup) CodesForSegment(segment string) []string {
	entries := l.segments[normalizeSegment(segment)]
	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		codes = append(codes, entry.Code)
	}
	return codes
}

// SegmentCodes returns the full entries of a segment
func (l *Lookup) SegmentCodes(segment string) ([]models.IndustryCode, bool) {
	entries, ok := l.segments[normalizeSegment(segment)]
	if !ok {
		return nil, false
	}
	out := make([]models.IndustryCode, len(entries))
	copy(out, entries)
	return out, true
}

// SegmentForCode returns the segment a code belongs to
func (l *Lookup) SegmentForCode(code string) (string, bool) {
	entry, ok := l.byCode[utils.DigitsOnly(code)]
	if !ok {
		return "", false
	}
	return entry.Segment, true
}

// CodeInfo returns the entry of a code
func (l *Lookup) CodeInfo(code string) (models.IndustryCode, bool) {
	entry, ok := l.byCode[utils.DigitsOnly(code)]
	return entry, ok
}

// Search matches term case-insensitively against codes and descriptions,
// returning at most MaxSearchResults entries. A blank term matches nothing.
func (l *Lookup) Search(term string) []models.IndustryCode {
	needle := foldTerm(term)
	if needle == "" {
		return []models.IndustryCode{}
	}
	// Terms without letters are treated as (possibly formatted) codes
	var codeTerm string
	if !strings.ContainsFunc(term, unicode.IsLetter) {
		codeTerm = utils.DigitsOnly(term)
	}

	results := make([]models.IndustryCode, 0)
	seen := make(map[string]struct{})
	for _, entry := range l.ordered {
		if _, dup := seen[entry.Code]; dup {
			continue
		}
		matched := (codeTerm != "" && strings.Contains(entry.Code, codeTerm)) ||
			strings.Contains(foldTerm(entry.Description), needle)
		if !matched {
			continue
		}
		seen[entry.Code] = struct{}{}
		results = append(results, l.byCode[entry.Code])
		if len(results) == MaxSearchResults {
			break
		}
	}
	return results
}

func normalizeSegment(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func foldTerm(s string) string {
	return strings.ToLower(utils.FoldAccents(strings.TrimSpace(s)))
}
