// Package loader reads the three CSV datasets a planning run consumes:
// the airport reference table, the job sheet, and the fleet listing.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"airhaul/internal/model"
)

// RowError locates a malformed record in its source file.
type RowError struct {
	File string
	Row  int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("%s row %d: %v", e.File, e.Row, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Airports reads the airport reference CSV. The file is addressed by header
// name; only ident, latitude_deg and longitude_deg are consumed, any other
// columns are ignored.
func Airports(path string) ([]model.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load airports: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("load airports: read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, want := range []string{"ident", "latitude_deg", "longitude_deg"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("load airports: missing column %q", want)
		}
	}

	var out []model.Airport
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, &RowError{File: path, Row: row, Err: err}
		}
		lat, err := strconv.ParseFloat(rec[col["latitude_deg"]], 64)
		if err != nil {
			return nil, &RowError{File: path, Row: row, Err: fmt.Errorf("latitude_deg: %w", err)}
		}
		lon, err := strconv.ParseFloat(rec[col["longitude_deg"]], 64)
		if err != nil {
			return nil, &RowError{File: path, Row: row, Err: fmt.Errorf("longitude_deg: %w", err)}
		}
		out = append(out, model.Airport{Ident: rec[col["ident"]], Lat: lat, Lon: lon})
	}
}

// Jobs reads the job sheet. Columns are positional after the header row:
// fromIcao, toIcao, dist, cargo, quantity, fee, expires. The dist column is
// ignored; distances are always recomputed from the airport table.
func Jobs(path string) ([]model.Job, error) {
	recs, err := readRows(path, 7)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	out := make([]model.Job, 0, len(recs))
	for i, rec := range recs {
		quantity, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, &RowError{File: path, Row: i + 2, Err: fmt.Errorf("quantity: %w", err)}
		}
		fee, err := strconv.ParseFloat(strings.TrimSpace(rec[5]), 64)
		if err != nil {
			return nil, &RowError{File: path, Row: i + 2, Err: fmt.Errorf("fee: %w", err)}
		}
		out = append(out, model.JobIn{
			From:     strings.TrimSpace(rec[0]),
			To:       strings.TrimSpace(rec[1]),
			Cargo:    strings.TrimSpace(rec[3]),
			Quantity: quantity,
			Fee:      fee,
			Expires:  strings.TrimSpace(rec[6]),
		}.Job())
	}
	return out, nil
}

// Aircraft reads the fleet listing. Columns are positional after the header
// row: Location, MakeModel, CargoCapacity, Range.
func Aircraft(path string) ([]model.Aircraft, error) {
	recs, err := readRows(path, 4)
	if err != nil {
		return nil, fmt.Errorf("load aircraft: %w", err)
	}
	out := make([]model.Aircraft, 0, len(recs))
	for i, rec := range recs {
		capacity, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, &RowError{File: path, Row: i + 2, Err: fmt.Errorf("CargoCapacity: %w", err)}
		}
		rangeNM, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, &RowError{File: path, Row: i + 2, Err: fmt.Errorf("Range: %w", err)}
		}
		out = append(out, model.Aircraft{
			Home:     strings.TrimSpace(rec[0]),
			Model:    strings.TrimSpace(rec[1]),
			Capacity: capacity,
			RangeNM:  rangeNM,
		})
	}
	return out, nil
}

// readRows skips the header row and returns the data records, enforcing the
// minimum column count.
func readRows(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var out [][]string
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, &RowError{File: path, Row: row, Err: err}
		}
		if len(rec) < minFields {
			return nil, &RowError{File: path, Row: row, Err: fmt.Errorf("want %d columns, got %d", minFields, len(rec))}
		}
		out = append(out, rec)
	}
}
