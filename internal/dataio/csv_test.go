package dataio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

const sample = `label,chunk,v1,v2
1,0,0.5,1.5
2,0,2.5,3.5
1, 1, 4, 5
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sample), dataset.WithRandomState(3))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NSamples())
	assert.Equal(t, 2, ds.NFeatures())
	assert.Equal(t, []float64{1, 2, 1}, ds.Labels())
	assert.Equal(t, []int{0, 0, 1}, ds.Chunks())
	assert.Equal(t, []float64{4, 5}, ds.Samples().RawRowView(2))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "label,chunk,v1\n"},
		{"no features", "label,chunk\n1,0\n"},
		{"bad label", "label,chunk,v1\nx,0,1\n"},
		{"bad chunk", "label,chunk,v1\n1,0.5,1\n"},
		{"bad value", "label,chunk,v1\n1,0,abc\n"},
		{"ragged", "label,chunk,v1\n1,0,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	ds, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NSamples())

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
