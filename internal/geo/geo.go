package geo

import (
	"math"

	"airhaul/internal/model"
)

// Unreachable is the sentinel distance for node pairs whose coordinates could
// not be resolved. It is far above any real great-circle distance in nautical
// miles, so the solver prices such arcs out instead of failing the build.
const Unreachable = 99999

const (
	earthRadiusM = 6371000.0
	metersPerNM  = 1850.0
)

// Coord is a geographic position in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance between two coordinates in
// nautical miles, rounded to the nearest integer (haversine formula).
func Distance(a, b Coord) int {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(math.Round(earthRadiusM * c / metersPerNM))
}

// regionPrefixes are tried in order when resolving a 3-character identifier
// against the 4-character canonical form (US first, then Canada).
var regionPrefixes = []string{"K", "C"}

// Resolver maps airport identifiers to coordinates, including the regional
// prefix fallback for short identifiers.
type Resolver struct {
	coords map[string]Coord
}

func NewResolver(airports []model.Airport) *Resolver {
	m := make(map[string]Coord, len(airports))
	for _, a := range airports {
		m[a.Ident] = Coord{Lat: a.Lat, Lon: a.Lon}
	}
	return &Resolver{coords: m}
}

// Canonical resolves an identifier to its canonical form. A 3-character
// identifier is expanded with the first regional prefix that matches the
// dataset; anything else must match exactly.
func (r *Resolver) Canonical(ident string) (string, bool) {
	if len(ident) == 3 {
		for _, p := range regionPrefixes {
			if _, ok := r.coords[p+ident]; ok {
				return p + ident, true
			}
		}
	}
	_, ok := r.coords[ident]
	return ident, ok
}

// Resolve returns the coordinates for an identifier, applying the same
// canonicalization as Canonical.
func (r *Resolver) Resolve(ident string) (Coord, bool) {
	id, ok := r.Canonical(ident)
	if !ok {
		return Coord{}, false
	}
	return r.coords[id], true
}

// Between computes the distance between two identifiers. If either side does
// not resolve under any prefix, the Unreachable sentinel is returned; the
// lookup never fails.
func (r *Resolver) Between(from, to string) int {
	a, ok := r.Resolve(from)
	if !ok {
		return Unreachable
	}
	b, ok := r.Resolve(to)
	if !ok {
		return Unreachable
	}
	return Distance(a, b)
}
