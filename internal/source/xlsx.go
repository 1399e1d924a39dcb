package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/big3stats/internal/big3"
	"github.com/2beens/big3stats/internal/telemetry/tracing"

	"github.com/tealeg/xlsx/v2"
	"go.opentelemetry.io/otel/attribute"
)

// XLSXSource reads the BIG3 log from a spreadsheet export (.xlsx).
type XLSXSource struct {
	path      string
	sheetName string
}

func NewXLSXSource(path, sheetName string) *XLSXSource {
	return &XLSXSource{
		path:      path,
		sheetName: sheetName,
	}
}

func (x *XLSXSource) FetchTable(ctx context.Context) (_ [][]*big3.Cell, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "xlsxSource.fetchTable")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("xlsx.path", x.path))

	f, err := xlsx.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx file: %w", big3.ErrSourceUnavailable, err)
	}

	sheet, err := x.sheet(f)
	if err != nil {
		return nil, err
	}

	table := make([][]*big3.Cell, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row == nil {
			table = append(table, nil)
			continue
		}
		cells := make([]*big3.Cell, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = xlsxCell(c)
		}
		table = append(table, cells)
	}

	return table, nil
}

func (x *XLSXSource) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if x.sheetName != "" {
		sheet, ok := f.Sheet[x.sheetName]
		if !ok {
			return nil, fmt.Errorf("%w: sheet %q not found", big3.ErrMalformedPayload, x.sheetName)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", big3.ErrMalformedPayload)
	}
	return f.Sheets[0], nil
}

func xlsxCell(c *xlsx.Cell) *big3.Cell {
	if c == nil || c.Value == "" {
		return nil
	}

	formatted := c.String()
	switch c.Type() {
	case xlsx.CellTypeNumeric:
		n, err := c.Float()
		if err != nil {
			break
		}
		if isDateFormat(c.GetNumberFormat()) {
			iso := xlsx.TimeFromExcelTime(n, false).UTC().Format("2006-01-02T15:04:05.000Z07:00")
			return &big3.Cell{Raw: iso, Formatted: iso}
		}
		return &big3.Cell{Raw: n, Formatted: formatted}
	case xlsx.CellTypeBool:
		return &big3.Cell{Raw: c.Bool(), Formatted: formatted}
	}

	return &big3.Cell{Raw: c.Value, Formatted: formatted}
}

// isDateFormat reports whether an excel number format renders a date.
func isDateFormat(format string) bool {
	f := strings.ToLower(format)
	// drop quoted literals and colors like [Red]
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range f {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '[' && !inQuote:
			inBracket = true
		case r == ']' && !inQuote:
			inBracket = false
		case !inQuote && !inBracket:
			b.WriteRune(r)
		}
	}
	f = b.String()
	return strings.Contains(f, "yy") || strings.Contains(f, "d") || strings.Contains(f, "mmm")
}
