package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// ImportRow is one parsed line of an import file.
type ImportRow struct {
	Line     int
	Title    string
	Type     models.TransactionType
	Value    decimal.Decimal
	Category string
}

// Column layout of an import file; the first line is a header.
const (
	colTitle = iota
	colType
	colValue
	colCategory
)

// errSkipRow marks a malformed row that is dropped without failing the import.
var errSkipRow = errors.New("skip row")

// ReadRows returns a single-pass sequence over the data rows of r. The header
// line is consumed first. Malformed rows are reported through skipped (if
// non-nil) and omitted from the sequence. A read error is yielded once and
// ends the sequence.
func ReadRows(r io.Reader, skipped func(line int, reason error)) iter.Seq2[ImportRow, error] {
	return func(yield func(ImportRow, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		cr.ReuseRecord = true

		line := 0
		for {
			rec, err := cr.Read()
			if err == io.EOF {
				return
			}
			line++
			if err != nil {
				yield(ImportRow{}, fmt.Errorf("read line %d: %w", line, err))
				return
			}
			if line == 1 {
				continue
			}

			row, err := parseRow(line, rec)
			if err != nil {
				if skipped != nil {
					skipped(line, err)
				}
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(line int, rec []string) (ImportRow, error) {
	title := cell(rec, colTitle)
	typ := cell(rec, colType)
	value := cell(rec, colValue)
	if title == "" || typ == "" || value == "" {
		return ImportRow{}, fmt.Errorf("%w: missing title, type or value", errSkipRow)
	}

	t := models.TransactionType(typ)
	if !t.Valid() {
		return ImportRow{}, fmt.Errorf("%w: unknown type %q", errSkipRow, typ)
	}
	v, err := util.ParseValue(value)
	if err != nil {
		return ImportRow{}, fmt.Errorf("%w: %v", errSkipRow, err)
	}
	if err := util.ValidateTitle(title); err != nil {
		return ImportRow{}, fmt.Errorf("%w: %v", errSkipRow, err)
	}

	// an empty category is allowed; the row is stored without one
	category := cell(rec, colCategory)
	if category != "" {
		if err := util.ValidateCategory(category); err != nil {
			return ImportRow{}, fmt.Errorf("%w: %v", errSkipRow, err)
		}
	}

	return ImportRow{
		Line:     line,
		Title:    title,
		Type:     t,
		Value:    v,
		Category: category,
	}, nil
}
