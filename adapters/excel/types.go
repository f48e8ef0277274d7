package excel

// RawData is a header row plus string cells, before type inference
type RawData struct {
	Headers []string
	Rows    [][]string
}
