package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"mazescore/domain/core"
	"mazescore/domain/session"
	"mazescore/internal"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	fileTypeCSV  = "csv"
	fileTypeXLSX = "xlsx"
)

// DataReader handles reading Excel and CSV session exports
type DataReader struct {
	filePath        string
	fileType        string // "xlsx", "csv" or "" when unsupported
	sheet           string
	timestampColumn int
	logger          *internal.Logger
}

// NewDataReader creates a reader; the file type comes from the extension.
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: fileTypeFor(filePath),
		logger:   internal.Discard(),
	}
}

// ParseUpload reads a session from src, using name only to pick the format
func ParseUpload(name string, src io.Reader) (*session.Table, error) {
	return NewDataReader(name).ReadFrom(src)
}

func fileTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return fileTypeCSV
	case ".xlsx", ".xlsm":
		return fileTypeXLSX
	}
	return ""
}

// WithSheet selects the workbook sheet; empty means the first sheet.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// WithTimestampColumn sets the 0-based column whose numeric cells are Excel
// serial dates. Defaults to the first column.
func (r *DataReader) WithTimestampColumn(col int) *DataReader {
	r.timestampColumn = col
	return r
}

// WithLogger sets the logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger.With("reader")
	}
	return r
}

// ReadTable opens the file and reads it as a session table
func (r *DataReader) ReadTable() (*session.Table, error) {
	if r.fileType == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Base(r.filePath))
	}
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}
	defer f.Close()
	return r.ReadFrom(f)
}

// ReadFrom reads a session table from src in the reader's format
func (r *DataReader) ReadFrom(src io.Reader) (*session.Table, error) {
	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case fileTypeCSV:
		rows, err = r.readCSVRows(src)
	case fileTypeXLSX:
		rows, err = r.readExcelRows(src)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Base(r.filePath))
	}
	if err != nil {
		return nil, err
	}

	table, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%d columns, %d rows)", filepath.Base(r.filePath),
		float64(time.Since(start).Nanoseconds())/1e6, table.NumColumns(), table.NumRows())
	return table, nil
}

// readCSVRows decodes UTF-8 and falls back to latin-1 for other encodings
func (r *DataReader) readCSVRows(src io.Reader) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		r.logger.Warn("%s is not valid UTF-8, decoding as latin-1", filepath.Base(r.filePath))
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("failed to decode CSV file as latin-1: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return rows, nil
}

// readExcelRows reads raw cell values so dates arrive as serial numbers
func (r *DataReader) readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyTable)
	}
	sheet := r.sheet
	if sheet == "" {
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if r.timestampColumn >= len(row) {
			continue
		}
		if converted, ok := serialToTimestamp(row[r.timestampColumn]); ok {
			row[r.timestampColumn] = converted
		}
	}
	return rows, nil
}

// serialToTimestamp converts an Excel serial date cell to RFC3339.
func serialToTimestamp(cell string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339Nano), true
}

// processRows trims cells, pads short rows to the header width and drops
// blank rows.
func (r *DataReader) processRows(rows [][]string) (*session.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", core.ErrEmptyTable)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &session.Table{Columns: headers}
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		blank := true
		for j := 0; j < len(row) && j < len(headers); j++ {
			cells[j] = strings.TrimSpace(row[j])
			if cells[j] != "" {
				blank = false
			}
		}
		if !blank {
			table.Rows = append(table.Rows, cells)
		}
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", core.ErrEmptyTable)
	}
	return table, nil
}
