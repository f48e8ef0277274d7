// Package excel loads .xlsx workbooks and .csv files into dataset tables.
package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"statkit/domain/dataset"
	"statkit/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if config.Comma == 0 {
		config.Comma = ','
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		logger:   internal.DefaultLogger.Named("excel"),
	}
}

// ReadTable reads the file and infers one column per header: a column is
// numeric when every non-missing cell parses as a number, text otherwise.
// Missing numeric cells become NaN.
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return r.toTable(raw)
}

// ReadData reads data from Excel or CSV files into raw string rows
func (r *DataReader) ReadData() (*RawData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

func (r *DataReader) readExcelData() (*RawData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows trims cells and pads short rows to the header width
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(headers))
	for i, header := range rows[0] {
		name := strings.TrimSpace(header)
		if name == "" {
			return nil, fmt.Errorf("header %d is empty", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate header %q", name)
		}
		seen[name] = true
		headers[i] = name
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		data = append(data, cells)
	}

	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(data))
	return &RawData{Headers: headers, Rows: data}, nil
}

func (r *DataReader) toTable(raw *RawData) (*dataset.Table, error) {
	columns := make([]dataset.Column, len(raw.Headers))
	for j, name := range raw.Headers {
		cells := make([]string, len(raw.Rows))
		for i, row := range raw.Rows {
			cells[i] = row[j]
		}
		if numbers, ok := r.parseNumbers(cells); ok {
			columns[j] = dataset.NumericColumn(name, numbers)
		} else {
			columns[j] = dataset.TextColumn(name, cells)
		}
	}
	return dataset.NewTable(columns...)
}

func (r *DataReader) parseNumbers(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	present := 0
	for i, cell := range cells {
		if r.isMissing(cell) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
		present++
	}
	return out, present > 0
}

func (r *DataReader) isMissing(cell string) bool {
	for _, token := range r.config.MissingTokens {
		if strings.EqualFold(cell, token) {
			return true
		}
	}
	return false
}
