// Package index loads and parses the public IRS indices: the yearly
// e-file index and the per-region Exempt Organizations Business Master
// File. Both arrive as CSV with unreliable formatting, so parsing is
// tolerant: rows missing required fields are skipped and counted, and
// non-UTF-8 payloads fall back to Windows-1252.
package index

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/irs990"
	"golang.org/x/text/encoding/charmap"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// decode strips a UTF-8 BOM and re-decodes Windows-1252 payloads; the IRS
// publishes several region files in Latin-1 variants.
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, bom)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		// Windows-1252 decodes any byte; keep the raw form if not.
		return string(data)
	}
	return string(decoded)
}

// header maps normalized column names to their positions.
func header(row []string) map[string]int {
	cols := make(map[string]int, len(row))
	for i, name := range row {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return cols
}

// field returns the trimmed value of the named column, or "" when the
// column is absent or the row is too short.
func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rows iterates the CSV records after the header, skipping rows the csv
// parser rejects. It reports how many rows were dropped that way.
func rows(data string, visit func(row []string, cols map[string]int) bool) (skipped int, err error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	head, err := r.Read()
	if err != nil {
		return 0, irs990.Errorf(irs990.EMALFORMED, "index has no header row")
	}
	cols := header(head)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			skipped++
			continue
		}
		if !visit(row, cols) {
			skipped++
		}
	}
}
