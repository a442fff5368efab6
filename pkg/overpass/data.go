package overpass

import "github.com/emergia-gye/emergia/pkg/geo"

// Document is the decoded Overpass API response for a road network query
// issued with "out tags geom", so way elements carry their geometry inline.
type Document struct {
	Elements []Element `json:"elements"`
}

type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Geometry []GeoPoint        `json:"geometry,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsWay reports whether the element is a way with usable geometry.
func (e Element) IsWay() bool {
	return e.Type == "way" && len(e.Geometry) > 0
}

func (e Element) Tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}

// TotalWayPoints counts geometry points across all ways, the quantity the
// downsampling policy is derived from.
func (d *Document) TotalWayPoints() int {
	total := 0
	for _, el := range d.Elements {
		if el.IsWay() {
			total += len(el.Geometry)
		}
	}
	return total
}

// FallbackDocument is the minimal built-in network used when the provider
// is unreachable: a single untagged way from ESPOL to Ceibos Centro.
func FallbackDocument() *Document {
	return &Document{
		Elements: []Element{
			{
				Type: "way",
				ID:   1,
				Geometry: []GeoPoint{
					{Lat: -2.1448, Lon: -79.9663},
					{Lat: -2.1672, Lon: -79.9378},
				},
			},
		},
	}
}

// DefaultCoverage are the bounding boxes of the served area (Ceibos + ESPOL).
func DefaultCoverage() (guayaquil, ceibos geo.BoundingBox) {
	guayaquil = geo.NewBoundingBox(-2.19, -79.97, -2.142, -79.920)
	ceibos = geo.NewBoundingBox(-2.19, -79.97, -2.142, -79.920)
	return guayaquil, ceibos
}
