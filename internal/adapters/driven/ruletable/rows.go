// Package ruletable turns spreadsheet rows into locator rules. The
// xlsx and csv subpackages read files; this package holds the shared
// row handling and the lock pre-check.
package ruletable

import (
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// MaxEmptyRun is the number of consecutive empty rows tolerated before
// reading stops.
const MaxEmptyRun = 20

// Column positions of a rule row.
const (
	ColReference = 0
	ColHint      = 1
	ColExamples  = 2
)

// RulesFromRows converts sheet rows into rules. rows[0] is the header.
func RulesFromRows(rows [][]string) []domain.Rule {
	var b Builder
	for _, row := range rows {
		if !b.Add(row) {
			break
		}
	}
	return b.Rules()
}

// Builder turns rows into rules as they are read. Row indexes are
// 1-based sheet rows, so the first rule is row 2. Rows without a
// reference are skipped, and more than MaxEmptyRun consecutive
// fully-empty rows end the table.
type Builder struct {
	rules []domain.Rule
	row   int
	empty int
}

// Add feeds the next sheet row, header first. It returns false once the
// table has ended and further rows would be ignored.
func (b *Builder) Add(row []string) bool {
	if b.empty > MaxEmptyRun {
		return false
	}
	b.row++
	if b.row == 1 {
		return true
	}
	if isEmpty(row) {
		b.empty++
		return b.empty <= MaxEmptyRun
	}
	b.empty = 0

	ref := cell(row, ColReference)
	if ref == "" {
		return true
	}
	rule := domain.NewRule(b.row, ref, cell(row, ColHint), cell(row, ColExamples))
	rule.Values = trimmed(row)
	b.rules = append(b.rules, rule)
	return true
}

// Rules returns the rules built so far.
func (b *Builder) Rules() []domain.Rule {
	return b.rules
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimmed(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
