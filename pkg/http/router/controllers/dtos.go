package controllers

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/system"
)

type routeRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
}

type nearestFacilitiesRequest struct {
	Lat      float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"required,min=-180,max=180"`
	Category string  `json:"category" validate:"required"`
	Limit    int     `json:"limit" validate:"omitempty,min=1,max=20"`
}

type loadNetworkRequest struct {
	UseReducedArea bool `json:"use_reduced_area"`
}

// routeGeometry renders a path as a GeoJSON LineString feature; GeoJSON
// positions are (lon, lat) ordered, renderers expecting (lat, lon) must
// reorder.
func routeGeometry(coords []geo.Coordinate) *geojson.Feature {
	positions := make([][]float64, len(coords))
	for i, c := range coords {
		positions[i] = []float64{c.Lon, c.Lat}
	}
	return geojson.NewLineStringFeature(positions)
}

type routeResponse struct {
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	NodeIDs     []string         `json:"node_ids"`
	DistanceKm  float64          `json:"distance_km"`
	EtaMinutes  float64          `json:"eta_minutes"`
	Polyline    string           `json:"polyline"`
	Geometry    *geojson.Feature `json:"geometry"`
}

func newRouteResponse(origin, destination string, route routeData) routeResponse {
	return routeResponse{
		Origin:      origin,
		Destination: destination,
		NodeIDs:     route.GetNodeIDs(),
		DistanceKm:  route.GetDistanceKm(),
		EtaMinutes:  route.GetEtaMinutes(),
		Polyline:    geo.PolylineFromCoords(route.GetCoords()),
		Geometry:    routeGeometry(route.GetCoords()),
	}
}

type routeData interface {
	GetNodeIDs() []string
	GetCoords() []geo.Coordinate
	GetDistanceKm() float64
	GetEtaMinutes() float64
}

type facilityResponse struct {
	Name       string           `json:"name"`
	Category   string           `json:"category"`
	Phone      string           `json:"phone"`
	Specialty  string           `json:"specialty,omitempty"`
	Zone       string           `json:"zone,omitempty"`
	Lat        float64          `json:"lat"`
	Lon        float64          `json:"lon"`
	DistanceKm float64          `json:"distance_km"`
	EtaMinutes float64          `json:"eta_minutes"`
	Polyline   string           `json:"polyline"`
	Geometry   *geojson.Feature `json:"geometry"`
}

func newFacilityResponses(results []system.FacilityResult) []facilityResponse {
	out := make([]facilityResponse, len(results))
	for i, res := range results {
		out[i] = facilityResponse{
			Name:       res.Service.Name,
			Category:   string(res.Service.Category),
			Phone:      res.Service.Phone,
			Specialty:  res.Service.Specialty,
			Zone:       res.Service.Zone,
			Lat:        res.Service.Coord.Lat,
			Lon:        res.Service.Coord.Lon,
			DistanceKm: res.DistanceKm,
			EtaMinutes: res.EtaMinutes,
			Polyline:   geo.PolylineFromCoords(res.Route.GetCoords()),
			Geometry:   routeGeometry(res.Route.GetCoords()),
		}
	}
	return out
}

type resolveLocationResponse struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type networkStatusResponse struct {
	Nodes    int  `json:"nodes"`
	Edges    int  `json:"edges"`
	Prepared bool `json:"prepared"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
