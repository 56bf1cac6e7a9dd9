// Package csv writes formula dictionaries as one CSV file per mass window
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ChrisMcGann/FormKey/pkg/batch"
)

// Header is the column layout of every dictionary file
var Header = []string{"mass", "abundance", "C", "H", "O", "N", "S", "P", "Na", "K", "heteroclass", "heterocount"}

// Writer writes <dir>/<pos|neg>/dict<low>.csv files
type Writer struct {
	dir   string
	files []string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the file a window result is written to
func (w *Writer) Path(res *batch.WindowResult) string {
	name := "dict" + strconv.FormatFloat(res.Window.Low, 'f', -1, 64) + ".csv"
	return filepath.Join(w.dir, res.Mode.Short(), name)
}

// Files returns the files written so far
func (w *Writer) Files() []string {
	return w.files
}

// WriteWindow writes one window. Failed windows produce no file.
func (w *Writer) WriteWindow(res *batch.WindowResult) error {
	if res.Err != nil {
		return nil
	}

	path := w.Path(res)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := stdcsv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(Header))
	for _, c := range res.Candidates {
		row[0] = formatFloat(c.Mass)
		row[1] = formatFloat(c.Abundance)
		for i, n := range []int{c.C, c.H, c.O, c.N, c.S, c.P, c.Na, c.K} {
			row[2+i] = strconv.Itoa(n)
		}
		row[10] = c.HeteroClass()
		row[11] = strconv.Itoa(c.HeteroCount())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Formula(), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.files = append(w.files, path)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
