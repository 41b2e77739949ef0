// Package dataset recomputes a visible row set from a full in-memory
// dataset: free-text search, day-exact date filter, MRF-format filter,
// stable sort and fixed-size pagination. Pages share one engine
// parameterized by field accessors instead of re-deriving the pipeline
// per screen.
package dataset

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"procure-desk/internal/timeutil"
)

// Kind tells the sorter how to compare a field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

// Field exposes one sortable/searchable attribute of a row.
type Field[T any] struct {
	Kind   Kind
	String func(T) string
	Number func(T) float64
	Date   func(T) *time.Time
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Spec wires an entity type into the engine.
type Spec[T any] struct {
	Fields map[string]Field[T]
	// SearchKeys are the string fields the text filter scans.
	SearchKeys []string
	// DateKey is the field the date filter compares, day-exact.
	DateKey string
	// MRFKey is the identifier field tested against the MRF format.
	MRFKey string
	// Matcher, when set, replaces the default text match. It may return
	// a transformed copy of the row (used to restrict a parent's
	// children to the matching subset).
	Matcher func(row T, term string) (T, bool)
}

var mrfPattern = regexp.MustCompile(`^MRF-\d+$`)

// Engine holds the full dataset plus the current view state. Every
// read recomputes from the full dataset, so clearing a filter always
// restores exactly what was there before.
type Engine[T any] struct {
	rows []T
	spec Spec[T]

	term     string
	date     string
	mrfOnly  bool
	sortKey  string
	dir      Direction
	page     int
	pageSize int
}

func New[T any](rows []T, spec Spec[T], pageSize int) *Engine[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Engine[T]{rows: rows, spec: spec, page: 1, pageSize: pageSize}
}

// SetRows replaces the dataset after a re-fetch. View state survives;
// the page is clamped on read.
func (e *Engine[T]) SetRows(rows []T) {
	e.rows = rows
}

// Rows returns the full unfiltered dataset.
func (e *Engine[T]) Rows() []T {
	return e.rows
}

// SetSearch applies the free-text filter and resets to page 1.
func (e *Engine[T]) SetSearch(term string) {
	e.term = strings.TrimSpace(term)
	e.page = 1
}

// SetDate applies the date filter. Any value carrying a recognizable
// date collapses to its YYYY-MM-DD day; empty clears the filter.
// Resets to page 1.
func (e *Engine[T]) SetDate(value string) {
	e.date = normalizeDay(value)
	e.page = 1
}

// SetMRFOnly restricts rows to MRF-format identifiers and resets to page 1.
func (e *Engine[T]) SetMRFOnly(on bool) {
	e.mrfOnly = on
	e.page = 1
}

// SortBy sorts by the named field. Repeating the current key toggles
// the direction; a new key starts ascending and resets to page 1.
func (e *Engine[T]) SortBy(key string) {
	if key == e.sortKey {
		if e.dir == Ascending {
			e.dir = Descending
		} else {
			e.dir = Ascending
		}
		return
	}
	e.sortKey = key
	e.dir = Ascending
	e.page = 1
}

func (e *Engine[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.page = page
}

func (e *Engine[T]) Page() int { return e.page }

func (e *Engine[T]) SortState() (string, Direction) { return e.sortKey, e.dir }

// Filtered returns the full filtered, sorted row set. The three
// filters are independent predicates, so their order is immaterial.
func (e *Engine[T]) Filtered() []T {
	out := make([]T, 0, len(e.rows))
	for _, row := range e.rows {
		row, ok := e.matchText(row)
		if !ok {
			continue
		}
		if !e.matchDate(row) {
			continue
		}
		if !e.matchMRF(row) {
			continue
		}
		out = append(out, row)
	}
	e.sortRows(out)
	return out
}

// Visible returns the current page of the filtered set.
func (e *Engine[T]) Visible() []T {
	filtered := e.Filtered()

	page := e.page
	if max := e.pageCountFor(len(filtered)); page > max {
		page = max
	}

	start := (page - 1) * e.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + e.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageCount reports the number of pages in the current filtered set,
// at least 1.
func (e *Engine[T]) PageCount() int {
	return e.pageCountFor(len(e.Filtered()))
}

func (e *Engine[T]) pageCountFor(n int) int {
	if n == 0 {
		return 1
	}
	return (n + e.pageSize - 1) / e.pageSize
}

func (e *Engine[T]) matchText(row T) (T, bool) {
	if e.term == "" {
		return row, true
	}
	if e.spec.Matcher != nil {
		return e.spec.Matcher(row, e.term)
	}
	needle := strings.ToLower(e.term)
	for _, key := range e.spec.SearchKeys {
		f, ok := e.spec.Fields[key]
		if !ok || f.String == nil {
			continue
		}
		if strings.Contains(strings.ToLower(f.String(row)), needle) {
			return row, true
		}
	}
	return row, false
}

func (e *Engine[T]) matchDate(row T) bool {
	if e.date == "" {
		return true
	}
	f, ok := e.spec.Fields[e.spec.DateKey]
	if !ok || f.Date == nil {
		return false
	}
	d := f.Date(row)
	if d == nil {
		return false
	}
	return timeutil.DateOnly(*d) == e.date
}

func (e *Engine[T]) matchMRF(row T) bool {
	if !e.mrfOnly {
		return true
	}
	f, ok := e.spec.Fields[e.spec.MRFKey]
	if !ok || f.String == nil {
		return false
	}
	return mrfPattern.MatchString(f.String(row))
}

func (e *Engine[T]) sortRows(rows []T) {
	if e.sortKey == "" {
		return
	}
	f, ok := e.spec.Fields[e.sortKey]
	if !ok {
		return
	}

	less := lessFunc(f)
	sort.SliceStable(rows, func(i, j int) bool {
		if e.dir == Descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessFunc[T any](f Field[T]) func(a, b T) bool {
	switch f.Kind {
	case KindNumber:
		return func(a, b T) bool { return f.Number(a) < f.Number(b) }
	case KindDate:
		return func(a, b T) bool {
			da, db := f.Date(a), f.Date(b)
			// missing dates sort after present ones
			if da == nil {
				return false
			}
			if db == nil {
				return true
			}
			return da.Before(*db)
		}
	default:
		return func(a, b T) bool {
			return strings.ToLower(f.String(a)) < strings.ToLower(f.String(b))
		}
	}
}

// normalizeDay reduces a date input to its YYYY-MM-DD segment. ISO
// timestamps keep their date part; anything unrecognizable is passed
// through trimmed, which then simply matches nothing.
func normalizeDay(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return timeutil.DateOnly(t)
	}
	if len(value) >= len(timeutil.DateLayout) {
		if _, err := time.Parse(timeutil.DateLayout, value[:len(timeutil.DateLayout)]); err == nil {
			return value[:len(timeutil.DateLayout)]
		}
	}
	return value
}
