package catalog

import (
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/util"
)

type Category string

const (
	HOSPITAL Category = "Hospital"
	FIRE     Category = "Bomberos"
	POLICE   Category = "Policía"
)

func Categories() []Category {
	return []Category{HOSPITAL, FIRE, POLICE}
}

func (c Category) Valid() bool {
	switch c {
	case HOSPITAL, FIRE, POLICE:
		return true
	}
	return false
}

// EmergencyService is a static catalog entry, not derived from map data.
type EmergencyService struct {
	Name      string
	Category  Category
	Coord     geo.Coordinate
	Phone     string
	Specialty string
	Zone      string
}

// NodeID is the graph identifier of the service node.
func (s EmergencyService) NodeID() string {
	return "service_" + util.NodeIDFromName(s.Name)
}

// ReferenceLocation is a named landmark used for origin selection.
type ReferenceLocation struct {
	Name  string
	Coord geo.Coordinate
}

func (r ReferenceLocation) NodeID() string {
	return "ref_" + util.NodeIDFromName(r.Name)
}

// Catalog holds the static facility and landmark data in a fixed order so
// integration and queries are reproducible.
type Catalog struct {
	services   []EmergencyService
	references []ReferenceLocation
}

func New(services []EmergencyService, references []ReferenceLocation) *Catalog {
	return &Catalog{services: services, references: references}
}

func Default() *Catalog {
	return New(DefaultServices(), DefaultReferenceLocations())
}

func (c *Catalog) Services() []EmergencyService {
	return c.services
}

func (c *Catalog) ServicesByCategory(cat Category) []EmergencyService {
	out := make([]EmergencyService, 0, len(c.services))
	for _, s := range c.services {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) References() []ReferenceLocation {
	return c.references
}

func DefaultServices() []EmergencyService {
	return []EmergencyService{
		{
			Name:      "Hospital del IESS Los Ceibos",
			Category:  HOSPITAL,
			Coord:     geo.NewCoordinate(-2.175396, -79.941602),
			Phone:     "(04) 380-5130",
			Specialty: "Público",
		},
		{
			Name:      "InterHospital",
			Category:  HOSPITAL,
			Coord:     geo.NewCoordinate(-2.180693, -79.945202),
			Phone:     "(04) 375-0000",
			Specialty: "Privado",
		},
		{
			Name:     "Cuartel Bomberos #5",
			Category: FIRE,
			Coord:    geo.NewCoordinate(-2.16239, -79.92644),
			Phone:    "(04) 371-4840",
			Zone:     "Ceibos",
		},
		{
			Name:     "UPC Los Ceibos",
			Category: POLICE,
			Coord:    geo.NewCoordinate(-2.16567, -79.93697),
			Phone:    "911",
			Zone:     "Los Ceibos",
		},
		{
			Name:     "UPC Los Ceibos 2",
			Category: POLICE,
			Coord:    geo.NewCoordinate(-2.151886, -79.952468),
			Phone:    "911",
			Zone:     "Los Ceibos",
		},
	}
}

func DefaultReferenceLocations() []ReferenceLocation {
	return []ReferenceLocation{
		{Name: "ESPOL", Coord: geo.NewCoordinate(-2.1448, -79.9663)},
		{Name: "FADCOM ESPOL", Coord: geo.NewCoordinate(-2.144132, -79.962161)},
		{Name: "FIEC ESPOL", Coord: geo.NewCoordinate(-2.144503, -79.968048)},
		{Name: "FCNM ESPOL", Coord: geo.NewCoordinate(-2.147740, -79.967923)},
		{Name: "FCSH ESPOL", Coord: geo.NewCoordinate(-2.147568, -79.968294)},
		{Name: "FCV ESPOL", Coord: geo.NewCoordinate(-2.152106, -79.957153)},
		{Name: "FICT ESPOL", Coord: geo.NewCoordinate(-2.145025, -79.964813)},
		{Name: "FIMCP ESPOL", Coord: geo.NewCoordinate(-2.144065, -79.965581)},
		{Name: "Los Ceibos", Coord: geo.NewCoordinate(-2.1672, -79.9378)},
		{Name: "Riocentro Ceibos", Coord: geo.NewCoordinate(-2.177456, -79.943431)},
		{Name: "Las Cumbres", Coord: geo.NewCoordinate(-2.157333, -79.946304)},
		{Name: "Colinas de los Ceibos", Coord: geo.NewCoordinate(-2.163287, -79.945786)},
	}
}
