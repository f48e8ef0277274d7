package excel

// ReaderConfig controls how a spreadsheet or CSV file becomes a table
type ReaderConfig struct {
	// Sheet to read from a workbook; empty means the first sheet
	Sheet string
	// MissingTokens are cell values read as missing, compared case-insensitively
	MissingTokens []string
	// Comma is the CSV field separator
	Comma rune
}

// DefaultReaderConfig returns sensible defaults for tabular input
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MissingTokens: []string{"", "na", "nan", "n/a", "null", "none"},
		Comma:         ',',
	}
}
