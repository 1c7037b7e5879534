package excel

import (
	"io"

	"mazescore/domain/session"
	"mazescore/internal"
)

// Loader reads session files with settings shared across many files
type Loader struct {
	sheet           string
	timestampColumn int
	logger          *internal.Logger
}

// NewLoader creates a loader that reads sheet (empty for the first one) and
// treats the mapping's timestamp column as Excel serial dates.
func NewLoader(sheet string, columns session.ColumnMapping, logger *internal.Logger) *Loader {
	col := columns.Timestamp - 1
	if col < 0 {
		col = 0
	}
	return &Loader{sheet: sheet, timestampColumn: col, logger: logger}
}

func (l *Loader) reader(name string) *DataReader {
	return NewDataReader(name).
		WithSheet(l.sheet).
		WithTimestampColumn(l.timestampColumn).
		WithLogger(l.logger)
}

// Load reads the file at path
func (l *Loader) Load(path string) (*session.Table, error) {
	return l.reader(path).ReadTable()
}

// LoadUpload reads an uploaded file; name only selects the format
func (l *Loader) LoadUpload(name string, src io.Reader) (*session.Table, error) {
	return l.reader(name).ReadFrom(src)
}
