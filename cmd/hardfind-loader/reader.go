// Streaming readers for product sheets. CSV is the export format the
// inventory team hands over; parquet shows up when the sheet comes out of the
// warehouse instead.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// rowCallback receives one normalized record per sheet row. Returning false
// stops the read.
type rowCallback func(rec record, seq int) bool

// sheetReader streams rows from a product sheet file, dispatching on
// extension.
type sheetReader struct {
	path string
}

func newSheetReader(path string) (*sheetReader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".parquet":
		return &sheetReader{path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported sheet format %q (want .csv or .parquet)", ext)
	}
}

// Read streams rows to cb. maxRows=0 means no limit.
func (r *sheetReader) Read(maxRows int, cb rowCallback) error {
	if strings.HasSuffix(strings.ToLower(r.path), ".parquet") {
		return r.readParquet(maxRows, cb)
	}
	return r.readCSV(maxRows, cb)
}

// readCSV streams the sheet with encoding/csv. The header row is normalized
// (trimmed, upper-cased) so lookups survive vendor export quirks.
func (r *sheetReader) readCSV(maxRows int, cb rowCallback) error {
	f, err := os.Open(filepath.Clean(r.path))
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = normalizeHeader(h)
	}

	seq := 0
	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read row %d: %w", seq, err)
		}

		rec := make(record, len(cols))
		for i, v := range row {
			if i < len(cols) && cols[i] != "" {
				rec[cols[i]] = v
			}
		}

		if !cb(rec, seq) {
			return nil
		}
		seq++
		if maxRows > 0 && seq >= maxRows {
			return nil
		}
	}
}

// readParquet streams the sheet with the generic row reader. Columns are
// resolved by schema name, so the reader works against any sheet layout.
// Repeated leaf values for the same column are joined with ", ".
func (r *sheetReader) readParquet(maxRows int, cb rowCallback) error {
	h, err := openParquet(r.path)
	if err != nil {
		return err
	}
	defer h.Close()

	// Leaf column index -> normalized column name.
	names := make(map[int]string)
	for i, path := range h.pf.Schema().Columns() {
		if len(path) > 0 {
			names[i] = normalizeHeader(path[0])
		}
	}

	seq := 0
	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				rec := make(record)
				for _, v := range buf[i] {
					if v.IsNull() {
						continue
					}
					name, ok := names[v.Column()]
					if !ok || name == "" {
						continue
					}
					if prev, dup := rec[name]; dup {
						rec[name] = prev + ", " + v.String()
					} else {
						rec[name] = v.String()
					}
				}

				if !cb(rec, seq) {
					return nil
				}
				seq++
				if maxRows > 0 && seq >= maxRows {
					return nil
				}
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return fmt.Errorf("read parquet rows: %w", readErr)
			}
		}
	}
	return nil
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// parquetHandle wraps parquet.File plus the underlying os.File for cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
