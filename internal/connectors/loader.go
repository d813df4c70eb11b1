package connectors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/peekknuf/dataqa/internal/dataset"
)

var (
	ErrInvalidPath = errors.New("file path must be a non-empty path to a data file")
	ErrEmptyFile   = errors.New("file is empty")
	ErrMalformed   = errors.New("malformed data file")
	ErrUnsupported = errors.New("unsupported file format")
)

// SupportedExtensions are the file extensions Load understands.
var SupportedExtensions = []string{"csv", "xlsx"}

type LoadOptions struct {
	// NullTokens are read as missing in addition to the empty string.
	NullTokens []string
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// Sheet selects the XLSX sheet. Empty means the first sheet.
	Sheet string
}

// DefaultLoadOptions returns options matching pandas-style null handling.
func DefaultLoadOptions() LoadOptions {
	tokens := make([]string, len(DefaultNullTokens))
	copy(tokens, DefaultNullTokens)
	return LoadOptions{NullTokens: tokens, Delimiter: ','}
}

// Load reads a dataset, choosing the reader by file extension.
func Load(path string, opts LoadOptions) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, opts)
	case ".xlsx":
		return LoadXLSX(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// LoadCSV reads a CSV file with a header row into a dataset.
func LoadCSV(path string, opts LoadOptions) (*dataset.Dataset, error) {
	file, err := openDataFile(path, "csv")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV reads CSV content with a header row into a dataset.
func ReadCSV(r io.Reader, opts LoadOptions) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		if opts.Delimiter == '"' || opts.Delimiter == '\r' || opts.Delimiter == '\n' || !utf8.ValidRune(opts.Delimiter) {
			return nil, fmt.Errorf("%w: invalid delimiter %q", ErrMalformed, opts.Delimiter)
		}
		reader.Comma = opts.Delimiter
	}

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, translateReadError(err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, translateReadError(err)
		}
		records = append(records, record)
	}

	return buildDataset(headers, records, opts)
}

// LoadXLSX reads one sheet of an Excel workbook. The first row is the
// header.
func LoadXLSX(path string, opts LoadOptions) (*dataset.Dataset, error) {
	file, err := openDataFile(path, "xlsx")
	if err != nil {
		return nil, err
	}
	file.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// GetRows drops trailing empty cells; pad back to the header width.
	headers := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformed, i+2, len(row), len(headers))
		}
		padded := make([]string, len(headers))
		copy(padded, row)
		records = append(records, padded)
	}

	return buildDataset(headers, records, opts)
}

func openDataFile(path, format string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file not found: %s: %w", format, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("unexpected error opening %s file %s: %w", format, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("unexpected error opening %s file %s: %w", format, path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}
	if info.Size() == 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return file, nil
}

func translateReadError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", ErrMalformed, parseErr)
	}
	return fmt.Errorf("unexpected error reading csv: %w", err)
}

func buildDataset(headers []string, records [][]string, opts LoadOptions) (*dataset.Dataset, error) {
	if len(headers) == 0 {
		return nil, ErrEmptyFile
	}

	nullTokens := make(map[string]struct{}, len(opts.NullTokens))
	for _, tok := range opts.NullTokens {
		nullTokens[tok] = struct{}{}
	}

	names := headerNames(headers)
	builders := make([]*columnBuilder, len(names))
	for i, name := range names {
		builders[i] = newColumnBuilder(name, len(records))
	}

	for _, record := range records {
		for i, value := range record {
			builders[i].update(value, nullTokens)
		}
	}

	columns := make([]dataset.Column, len(builders))
	for i, b := range builders {
		columns[i] = b.column()
	}

	d, err := dataset.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}
