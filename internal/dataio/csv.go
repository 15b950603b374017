// Package dataio reads datasets from delimited text files.
package dataio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// ReadCSV parses a dataset with a header row and the column layout
// label,chunk,f1,...,fn. Chunks must be integers. Labels must be numeric:
// categorical targets are expected to be coded as numbers beforehand.
func ReadCSV(r io.Reader, opts ...dataset.Option) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.ErrEmptyData
		}
		return nil, errors.Wrap(err, "read header")
	}
	if len(header) < 3 {
		return nil, errors.NewValidationError("header", "expected label,chunk and at least one feature column", strings.Join(header, ","))
	}

	var (
		rows   [][]float64
		labels []float64
		chunks []int
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		label, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: label", line)
		}
		chunk, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: chunk", line)
		}
		row := make([]float64, len(record)-2)
		for j, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: column %q", line, header[j+2])
			}
			row[j] = v
		}
		rows = append(rows, row)
		labels = append(labels, label)
		chunks = append(chunks, chunk)
	}
	if len(rows) == 0 {
		return nil, errors.ErrEmptyData
	}

	opts = append([]dataset.Option{dataset.WithLabels(labels), dataset.WithChunks(chunks)}, opts...)
	return dataset.FromRows(rows, opts...)
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, opts ...dataset.Option) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, opts...)
}
