package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/banshee-data/coaster.report/internal/units"
)

// Field is a canonical accelerometer table column.
type Field string

const (
	FieldTime         Field = "time"
	FieldLateral      Field = "lateral"
	FieldVertical     Field = "vertical"
	FieldLongitudinal Field = "longitudinal"
)

// AccelerometerFields lists the canonical columns in output order.
var AccelerometerFields = []Field{FieldTime, FieldLateral, FieldVertical, FieldLongitudinal}

// ErrMissingColumn is wrapped by every ColumnError.
var ErrMissingColumn = errors.New("missing column")

// ColumnError reports a canonical field whose mapped column is absent.
type ColumnError struct {
	Field  Field
	Column string
}

func (e *ColumnError) Error() string {
	if string(e.Field) == e.Column {
		return fmt.Sprintf("%s: %q", ErrMissingColumn, e.Column)
	}
	return fmt.Sprintf("%s: %q (for %s)", ErrMissingColumn, e.Column, e.Field)
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }

// Schema maps canonical fields to the column headers of an external
// recording. Every field must be mapped.
type Schema struct {
	Columns map[Field]string
	// Units of the three acceleration columns: units.G or units.MPS2.
	Units string
	// TimeScale converts the time column to seconds (1000 for ms). Zero
	// means seconds.
	TimeScale float64
}

// DefaultSchema reads the tables WriteAccelerometer produces.
func DefaultSchema() Schema {
	cols := make(map[Field]string, len(AccelerometerFields))
	for _, f := range AccelerometerFields {
		cols[f] = string(f)
	}
	return Schema{Columns: cols, Units: units.G}
}

// Validate checks that every canonical field is mapped and the units are known.
func (s Schema) Validate() error {
	for _, f := range AccelerometerFields {
		if strings.TrimSpace(s.Columns[f]) == "" {
			return fmt.Errorf("schema does not map %q: %w", f, ErrMissingColumn)
		}
	}
	if !units.IsValidAccel(s.Units) {
		return fmt.Errorf("unknown acceleration units %q", s.Units)
	}
	if s.TimeScale < 0 {
		return fmt.Errorf("time scale %f must not be negative", s.TimeScale)
	}
	return nil
}

// WriteAccelerometer writes samples as time,lateral,vertical,longitudinal in
// seconds and g.
func WriteAccelerometer(w io.Writer, samples []kinematics.AccelerometerSample) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(AccelerometerFields))
	for i, f := range AccelerometerFields {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 3, 64),
			strconv.FormatFloat(s.Lateral, 'f', 6, 64),
			strconv.FormatFloat(s.Vertical, 'f', 6, 64),
			strconv.FormatFloat(s.Longitudinal, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAccelerometer reads an accelerometer table through schema. The header
// row is required. Values are converted to seconds and g.
func ReadAccelerometer(r io.Reader, schema Schema) ([]kinematics.AccelerometerSample, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	cols := make([]int, len(AccelerometerFields))
	for i, f := range AccelerometerFields {
		name := schema.Columns[f]
		c, ok := index[name]
		if !ok {
			return nil, &ColumnError{Field: f, Column: name}
		}
		cols[i] = c
	}

	timeScale := schema.TimeScale
	if timeScale == 0 {
		timeScale = 1
	}

	var out []kinematics.AccelerometerSample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		var v [4]float64
		for i, c := range cols {
			v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, AccelerometerFields[i], err)
			}
		}
		out = append(out, kinematics.AccelerometerSample{
			Time:         v[0] / timeScale,
			Lateral:      units.AccelToG(v[1], schema.Units),
			Vertical:     units.AccelToG(v[2], schema.Units),
			Longitudinal: units.AccelToG(v[3], schema.Units),
		})
	}
	return out, nil
}
