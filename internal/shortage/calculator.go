// Package shortage nets bill-of-materials requirements against stock
// positions. Single-level: the backend already explodes assemblies
// into flat lines before this client sees them.
package shortage

import (
	"sort"

	"github.com/shopspring/decimal"

	"procure-desk/internal/models"
)

// LineResult is one BOM line with its computed shortfall.
type LineResult struct {
	models.BOMLine
	Shortage decimal.Decimal
}

// Report summarizes a shortage run for one assembly.
type Report struct {
	Assembly   string
	Lines      []LineResult
	ShortLines int
	TotalShort decimal.Decimal
}

// Calculate nets each line: shortage = max(0, required − on hand − on
// order). Lines come back worst-first, ties in input order.
func Calculate(assembly string, lines []models.BOMLine) *Report {
	r := &Report{Assembly: assembly, TotalShort: decimal.Zero}

	for _, line := range lines {
		short := line.RequiredQty.Sub(line.OnHandQty).Sub(line.OnOrderQty)
		if short.IsNegative() {
			short = decimal.Zero
		}
		if short.IsPositive() {
			r.ShortLines++
			r.TotalShort = r.TotalShort.Add(short)
		}
		r.Lines = append(r.Lines, LineResult{BOMLine: line, Shortage: short})
	}

	sort.SliceStable(r.Lines, func(i, j int) bool {
		return r.Lines[i].Shortage.GreaterThan(r.Lines[j].Shortage)
	})

	return r
}
