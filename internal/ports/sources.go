package ports

import "context"

// Table is a parsed delimited file with canonical column names.
type Table struct {
	Source    string
	Headers   []string
	Rows      []map[string]string
	Warnings  []string
	TotalRows int
}

// TableSource fetches and parses a delimited file from the first location
// that answers.
type TableSource interface {
	FetchTable(ctx context.Context, locations []string) (Table, error)
}
