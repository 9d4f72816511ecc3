package geo

import (
	"testing"

	"airhaul/internal/model"
)

var testAirports = []model.Airport{
	{Ident: "KSEA", Lat: 47.449, Lon: -122.309},
	{Ident: "KPDX", Lat: 45.588, Lon: -122.598},
	{Ident: "CYWG", Lat: 49.91, Lon: -97.24},
	{Ident: "KABC", Lat: 10, Lon: 10},
	{Ident: "CABC", Lat: -10, Lon: -10},
	{Ident: "EQ00", Lat: 0, Lon: 0},
	{Ident: "EQ01", Lat: 1, Lon: 0},
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude at the equator is about 60 nm.
	d := Distance(Coord{Lat: 0, Lon: 0}, Coord{Lat: 1, Lon: 0})
	if d < 59 || d > 61 {
		t.Fatalf("1 degree latitude: got %d nm, want 60±1", d)
	}
}

func TestDistanceSymmetricZeroDiagonal(t *testing.T) {
	a := Coord{Lat: 47.449, Lon: -122.309}
	b := Coord{Lat: 45.588, Lon: -122.598}
	if Distance(a, b) != Distance(b, a) {
		t.Fatalf("distance not symmetric: %d vs %d", Distance(a, b), Distance(b, a))
	}
	if d := Distance(a, a); d != 0 {
		t.Fatalf("distance(a,a) = %d, want 0", d)
	}
}

func TestResolvePrefixes(t *testing.T) {
	r := NewResolver(testAirports)

	if id, ok := r.Canonical("SEA"); !ok || id != "KSEA" {
		t.Fatalf("SEA: got %q ok=%v, want KSEA", id, ok)
	}
	if id, ok := r.Canonical("YWG"); !ok || id != "CYWG" {
		t.Fatalf("YWG: got %q ok=%v, want CYWG", id, ok)
	}
	// US prefix wins when both regions match.
	if id, _ := r.Canonical("ABC"); id != "KABC" {
		t.Fatalf("ABC: got %q, want KABC", id)
	}
	// Exact idents resolve without prefixing.
	if id, ok := r.Canonical("KPDX"); !ok || id != "KPDX" {
		t.Fatalf("KPDX: got %q ok=%v", id, ok)
	}
	if _, ok := r.Canonical("ZZZZ"); ok {
		t.Fatal("ZZZZ should not resolve")
	}
}

func TestBetweenUnresolvedIsSentinel(t *testing.T) {
	r := NewResolver(testAirports)
	if d := r.Between("KSEA", "ZZZZ"); d != Unreachable {
		t.Fatalf("unresolved destination: got %d, want sentinel %d", d, Unreachable)
	}
	if d := r.Between("QQQ", "KSEA"); d != Unreachable {
		t.Fatalf("unresolved origin: got %d, want sentinel %d", d, Unreachable)
	}
	if d := r.Between("SEA", "PDX"); d == Unreachable || d <= 0 {
		t.Fatalf("prefixed pair should resolve to a real distance, got %d", d)
	}
}

func TestBetweenMatchesKnownValue(t *testing.T) {
	r := NewResolver(testAirports)
	if d := r.Between("EQ00", "EQ01"); d < 59 || d > 61 {
		t.Fatalf("EQ00-EQ01: got %d nm, want 60±1", d)
	}
}
