// Package tableio reads flat delimited numeric tables into matrices.
//
// Each raw descriptor file is a 2-D table with one descriptor per row and
// one dimension per column, delimited by commas, semicolons, tabs or
// spaces. ReadTable transposes it into the column-major dim x count form
// used everywhere else in descgo.
package tableio

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
)

// KeepNaN is the NaN-fill sentinel: passing it leaves NaN entries in the
// source data untouched.
var KeepNaN = math.NaN()

// maxLineBytes bounds a single table row. 64K floats per descriptor is far
// beyond any real descriptor dimensionality.
const maxLineBytes = 1 << 20

func isDelim(r rune) bool {
	return r == ',' || r == ';' || r == '\t' || r == ' '
}

// ReadTable reads the table at path, casts to T, replaces NaN entries with
// nanFill (unless nanFill is the KeepNaN sentinel), and returns the
// transposed dim x count matrix.
//
// Every row must have the same number of fields; a ragged or empty table is
// an error, as is any field that does not parse as a number.
func ReadTable[T model.Float](path string, nanFill float64) (*matrix.Matrix[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	fill := !math.IsNaN(nanFill)

	var (
		rows [][]T
		dim  = -1
		line = 0
	)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.FieldsFunc(text, isDelim)
		if dim == -1 {
			dim = len(fields)
		} else if len(fields) != dim {
			return nil, fmt.Errorf("%s:%d: ragged table: row has %d fields, want %d", path, line, len(fields), dim)
		}
		row := make([]T, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: bad numeric field %q: %w", path, line, field, err)
			}
			if fill && math.IsNaN(v) {
				v = nanFill
			}
			row[i] = T(v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}

	// Transpose: on-disk row i becomes column i.
	m := matrix.New[T](dim, len(rows))
	for c, row := range rows {
		m.SetCol(c, row)
	}
	return m, nil
}

// ReadIntColumn reads the first whitespace-delimited column of the file at
// path as integers. Used for the Phototourism auxiliary metadata files.
func ReadIntColumn(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []int64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.FieldsFunc(text, isDelim)
		v, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad integer field %q: %w", path, line, fields[0], err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
