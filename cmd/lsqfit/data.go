// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/lstsq/sample"
)

var errDataset = errors.New("lsqfit: malformed dataset")

// dataset is a parsed CSV file.
type dataset struct {
	points  [][]float64
	y       []float64
	weights []float64 // nil when the file carries no weight column
}

func readDataset(path string, weighted bool) (*dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseDataset(f, weighted)
}

// parseDataset reads comma-separated rows. Lines starting with '#' are skipped.
func parseDataset(r io.Reader, weighted bool) (*dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDataset, err)
	}
	minCols := 2
	if weighted {
		minCols = 3
	}
	ds := &dataset{}
	for line, rec := range records {
		if len(rec) < minCols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want at least %d", errDataset, line+1, len(rec), minCols)
		}
		vals, err := parseRow(rec)
		if err != nil {
			if line == 0 {
				continue // header
			}
			return nil, fmt.Errorf("%w: row %d: %v", errDataset, line+1, err)
		}
		if weighted {
			ds.weights = append(ds.weights, vals[len(vals)-1])
			vals = vals[:len(vals)-1]
		}
		ds.points = append(ds.points, vals[:len(vals)-1])
		ds.y = append(ds.y, vals[len(vals)-1])
	}
	if len(ds.points) == 0 {
		return nil, fmt.Errorf("%w: no data rows", errDataset)
	}
	if ds.weights != nil {
		if err := sample.ValidateWeights(ds.weights, len(ds.weights)); err != nil {
			return nil, fmt.Errorf("%w: %v", errDataset, err)
		}
	}

	return ds, nil
}

func parseRow(rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for j, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}

	return out, nil
}
