// Package xlsx reads rule tables from Excel workbooks.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ruletable"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.RuleTableReader = (*Reader)(nil)

// PreferredSheet is read when the workbook has it.
const PreferredSheet = "Sheet1"

// Reader reads the rule sheet of a workbook.
type Reader struct{}

// New creates an xlsx reader.
func New() *Reader {
	return &Reader{}
}

// SupportedExtensions returns the workbook extensions.
func (r *Reader) SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Capability reports the reader. excelize is pure Go so it is always usable.
func (r *Reader) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      "xlsx",
		Kind:      domain.CapabilityRules,
		Available: true,
		Detail:    "excelize, .xlsx .xlsm",
	}
}

// Read opens the workbook and converts Sheet1, or the first sheet when
// there is no Sheet1.
func (r *Reader) Read(_ context.Context, path string) ([]domain.Rule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileLocked, filepath.Base(path))
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList())
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var b ruletable.Builder
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %s row: %w", sheet, err)
		}
		if !b.Add(cols) {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return b.Rules(), nil
}

func pickSheet(sheets []string) (string, error) {
	if len(sheets) == 0 {
		return "", domain.ErrSheetNotFound
	}
	for _, s := range sheets {
		if s == PreferredSheet {
			return s, nil
		}
	}
	return sheets[0], nil
}
