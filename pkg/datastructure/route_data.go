package datastructure

import "github.com/emergia-gye/emergia/pkg/geo"

// RouteResult is a reconstructed shortest path.
type RouteResult struct {
	nodeIDs    []string
	coords     []geo.Coordinate
	distanceKm float64
	etaMinutes float64
}

func NewRouteResult(nodeIDs []string, coords []geo.Coordinate, distanceKm, etaMinutes float64) *RouteResult {
	return &RouteResult{
		nodeIDs:    nodeIDs,
		coords:     coords,
		distanceKm: distanceKm,
		etaMinutes: etaMinutes,
	}
}

func (r *RouteResult) GetNodeIDs() []string {
	return r.nodeIDs
}

func (r *RouteResult) GetCoords() []geo.Coordinate {
	return r.coords
}

func (r *RouteResult) GetDistanceKm() float64 {
	return r.distanceKm
}

func (r *RouteResult) GetEtaMinutes() float64 {
	return r.etaMinutes
}
