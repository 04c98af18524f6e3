package geo

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/powderlines/resort-cli/internal/model"
)

const earthRadiusMiles = 3958.8

// Point returns the resort's position as an XY geometry coordinate
// (longitude first, matching the usual axis order).
func Point(r model.Resort) geom.Coord {
	return geom.Coord{r.Longitude, r.Latitude}
}

// HaversineMiles returns the great-circle distance in miles between two
// coordinates.
func HaversineMiles(a, b geom.Coord) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Neighbor is a resort paired with its distance from a reference point.
type Neighbor struct {
	Resort model.Resort `json:"resort"`
	Miles  float64      `json:"miles"`
}

// Nearby returns up to limit resorts within maxMiles of the origin resort,
// closest first. The origin itself and lost resorts are excluded.
func Nearby(origin model.Resort, candidates []model.Resort, maxMiles float64, limit int) []Neighbor {
	from := Point(origin)

	var out []Neighbor
	for _, c := range candidates {
		if c.Slug == origin.Slug || c.IsLost {
			continue
		}
		d := HaversineMiles(from, Point(c))
		if d > maxMiles {
			continue
		}
		out = append(out, Neighbor{Resort: c, Miles: d})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Miles < out[j].Miles })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
