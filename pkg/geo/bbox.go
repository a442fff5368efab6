package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// BoundingBox in degrees, (south, west, north, east) order as used by the
// Overpass API.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

func NewBoundingBox(south, west, north, east float64) BoundingBox {
	return BoundingBox{
		South: south,
		West:  west,
		North: north,
		East:  east,
	}
}

func (b BoundingBox) rect() s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(b.South, b.West))
	return r.AddPoint(s2.LatLngFromDegrees(b.North, b.East))
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return b.rect().ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// String renders the box in Overpass QL argument order.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.South, b.West, b.North, b.East)
}
