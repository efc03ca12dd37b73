package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stitts-dev/epl-analytics/pkg/logger"
)

// RawTable is one source file read into memory: a header row plus records.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// ReadCSV parses a single CSV stream into a RawTable.
func ReadCSV(r io.Reader, source string) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // ragged rows are a data-quality issue, not a parse failure

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", source, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", source, err)
		}
		rows = append(rows, record)
	}

	return &RawTable{Source: source, Header: header, Rows: rows}, nil
}

// ReadCSVFile reads one CSV file from disk.
func ReadCSVFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, filepath.Base(path))
}

// ReadDataDir reads every CSV file under dir, sorted by name so repeated runs
// see files in the same order.
func ReadDataDir(dir string) ([]*RawTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}

	tables := make([]*RawTable, 0, len(paths))
	for _, path := range paths {
		table, err := ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		logger.WithDatasetContext(table.Source, "").WithField("rows", len(table.Rows)).Info("Loaded source file")
		tables = append(tables, table)
	}

	return tables, nil
}
