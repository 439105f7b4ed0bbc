// Package csv reads rule tables from comma or semicolon separated files.
package csv

import (
	"bufio"
	"bytes"
	"context"
	encsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ruletable"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.RuleTableReader = (*Reader)(nil)

// Reader reads CSV rule tables.
type Reader struct{}

// New creates a CSV reader.
func New() *Reader {
	return &Reader{}
}

// SupportedExtensions returns the CSV extension.
func (r *Reader) SupportedExtensions() []string {
	return []string{".csv"}
}

// Capability reports the reader as available.
func (r *Reader) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      "csv",
		Kind:      domain.CapabilityRules,
		Available: true,
		Detail:    "comma or semicolon, UTF-8 with or without BOM",
	}
}

// Read parses the file. The delimiter is a semicolon when the header
// line has more semicolons than commas, as spreadsheet exports in
// comma-decimal locales do.
func (r *Reader) Read(_ context.Context, path string) ([]domain.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", domain.ErrFileLocked, filepath.Base(path))
		}
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	head, _ := br.Peek(4096)

	cr := encsv.NewReader(br)
	cr.Comma = delimiter(head)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var b ruletable.Builder
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if !b.Add(rec) {
			break
		}
	}
	return b.Rules(), nil
}

func delimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';'
	}
	return ','
}
