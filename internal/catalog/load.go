package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadQueries reads a query list from a catalog file. The format is chosen by
// extension: .csv (a "query" column), .json (array of strings), .yaml/.yml
// (list of strings).
func LoadQueries(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (use .csv, .json or .yaml)", filepath.Ext(path))
	}
}

// loadCSV reads queries from a CSV file. The first row is treated as the
// header and must contain a "query" column.
func loadCSV(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV catalog: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV catalog must have a header row and at least one data row")
	}

	queryCol := -1
	for i, field := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(field), "query") {
			queryCol = i
			break
		}
	}
	if queryCol < 0 {
		return nil, fmt.Errorf("CSV catalog is missing a %q column", "query")
	}

	queries := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if queryCol >= len(row) {
			return nil, fmt.Errorf("row %d has %d fields, expected at least %d", i+2, len(row), queryCol+1)
		}
		query := strings.TrimSpace(row[queryCol])
		if query == "" {
			return nil, fmt.Errorf("row %d has an empty query", i+2)
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func loadJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON catalog: %w", err)
	}
	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parse JSON catalog: %w", err)
	}
	return validateList(queries)
}

func loadYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open YAML catalog: %w", err)
	}
	var queries []string
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parse YAML catalog: %w", err)
	}
	return validateList(queries)
}

func validateList(queries []string) ([]string, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("catalog file contains no queries")
	}
	for i, query := range queries {
		if strings.TrimSpace(query) == "" {
			return nil, fmt.Errorf("catalog entry %d is empty", i)
		}
	}
	return queries, nil
}
