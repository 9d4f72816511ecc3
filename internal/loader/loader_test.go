package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAirports(t *testing.T) {
	path := writeFile(t, "airports.csv",
		"id,ident,type,name,latitude_deg,longitude_deg\n"+
			"1,KSEA,large_airport,Seattle-Tacoma,47.449,-122.309\n"+
			"2,CYVR,large_airport,Vancouver,49.1947,-123.179\n")

	got, err := Airports(path)
	if err != nil {
		t.Fatalf("Airports: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d airports, want 2", len(got))
	}
	if got[0].Ident != "KSEA" || got[0].Lat != 47.449 || got[0].Lon != -122.309 {
		t.Errorf("unexpected first airport %+v", got[0])
	}
}

func TestAirportsMissingColumn(t *testing.T) {
	path := writeFile(t, "airports.csv", "ident,latitude_deg\nKSEA,47.449\n")
	if _, err := Airports(path); err == nil {
		t.Fatal("want error for missing longitude_deg column")
	}
}

func TestAirportsBadCoordinate(t *testing.T) {
	path := writeFile(t, "airports.csv",
		"ident,latitude_deg,longitude_deg\nKSEA,north,-122.309\n")
	_, err := Airports(path)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("want RowError, got %v", err)
	}
	if rowErr.Row != 2 {
		t.Errorf("row = %d, want 2", rowErr.Row)
	}
}

func TestJobs(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"fromIcao,toIcao,dist,cargo,quantity,fee,expires\n"+
			"KPDX,KBOI,286,Machine parts,120,1500.50,2026-09-01\n"+
			"SEA,KGEG,0,Mail,45,200,2026-09-02 08:00\n")

	got, err := Jobs(path)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs, want 2", len(got))
	}
	j := got[0]
	if j.From != "KPDX" || j.To != "KBOI" || j.Cargo != "Machine parts" || j.Quantity != 120 || j.Fee != 1500.50 {
		t.Errorf("unexpected first job %+v", j)
	}
	if want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC); !j.Expires.Equal(want) {
		t.Errorf("expires = %v, want %v", j.Expires, want)
	}
}

func TestJobsBadQuantity(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"fromIcao,toIcao,dist,cargo,quantity,fee,expires\n"+
			"KPDX,KBOI,286,Mail,lots,200,2026-09-01\n")
	_, err := Jobs(path)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("want RowError, got %v", err)
	}
}

func TestJobsShortRow(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"fromIcao,toIcao,dist,cargo,quantity,fee,expires\nKPDX,KBOI\n")
	if _, err := Jobs(path); err == nil {
		t.Fatal("want error for short row")
	}
}

func TestAircraft(t *testing.T) {
	path := writeFile(t, "aircraft.csv",
		"Location,MakeModel,CargoCapacity,Range\n"+
			"KSEA,Cessna 208,1200,940\n"+
			"KSEA,ATR 72,7000,820\n")

	got, err := Aircraft(path)
	if err != nil {
		t.Fatalf("Aircraft: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d aircraft, want 2", len(got))
	}
	a := got[1]
	if a.Home != "KSEA" || a.Model != "ATR 72" || a.Capacity != 7000 || a.RangeNM != 820 {
		t.Errorf("unexpected aircraft %+v", a)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Airports(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("want error for missing file")
	}
}
