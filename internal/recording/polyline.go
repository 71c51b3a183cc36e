package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/coaster.report/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// PolylineHeader is the header written by WritePolyline.
var PolylineHeader = []string{"x", "y", "z"}

// ReadPolyline reads x,y,z rows in meters. A header row is optional; when
// present the x, y and z columns may appear in any order among other
// columns. Lines starting with '#' are ignored.
func ReadPolyline(r io.Reader) (geom.Polyline, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cols := [3]int{0, 1, 2}
	headerless := true
	var p geom.Polyline
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read points: %w", err)
		}
		if line == 1 && !isNumeric(rec[0]) {
			cols, err = polylineColumns(rec)
			if err != nil {
				return nil, err
			}
			headerless = false
			continue
		}

		if headerless && len(rec) != 3 {
			return nil, fmt.Errorf("line %d has %d values: %w", line, len(rec), geom.ErrWrongDimension)
		}
		var pt [3]float64
		for i, c := range cols {
			if c >= len(rec) {
				return nil, fmt.Errorf("line %d has %d values: %w", line, len(rec), geom.ErrWrongDimension)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, c+1, err)
			}
			pt[i] = v
		}
		p = append(p, r3.Vec{X: pt[0], Y: pt[1], Z: pt[2]})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func polylineColumns(header []string) ([3]int, error) {
	cols := [3]int{-1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x":
			cols[0] = i
		case "y":
			cols[1] = i
		case "z":
			cols[2] = i
		}
	}
	for i, c := range cols {
		if c < 0 {
			return cols, &ColumnError{Field: Field(PolylineHeader[i]), Column: PolylineHeader[i]}
		}
	}
	return cols, nil
}

// WritePolyline writes p with a header row.
func WritePolyline(w io.Writer, p geom.Polyline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PolylineHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, pt := range p {
		if err := cw.Write([]string{formatFloat(pt.X), formatFloat(pt.Y), formatFloat(pt.Z)}); err != nil {
			return fmt.Errorf("failed to write point: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
