package snap

import (
	"fmt"
	"math"

	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
)

// Projection is the perpendicular foot of a point on its nearest edge,
// computed in the local planar frame centered on the query latitude.
type Projection struct {
	edgeIdx      int
	from         string
	to           string
	t            float64
	coord        geo.Coordinate
	planarDistKm float64
}

func (p Projection) GetFrom() string {
	return p.from
}

func (p Projection) GetTo() string {
	return p.to
}

func (p Projection) GetT() float64 {
	return p.t
}

func (p Projection) GetCoord() geo.Coordinate {
	return p.coord
}

func (p Projection) GetPlanarDistKm() float64 {
	return p.planarDistKm
}

// NearestEdgeProjection scans every edge in insertion order and keeps the
// first strict minimum, so ties resolve deterministically. Returns ok=false
// when the graph has no edges.
func NearestEdgeProjection(g *datastructure.Graph, point geo.Coordinate) (Projection, bool) {
	edges := g.Edges()
	if len(edges) == 0 {
		return Projection{}, false
	}

	px, py := geo.Project(point.Lat, point.Lon, point.Lat)

	best := Projection{planarDistKm: math.Inf(1)}
	found := false

	for idx, e := range edges {
		u, okU := g.GetNode(e.GetFrom())
		v, okV := g.GetNode(e.GetTo())
		if !okU || !okV {
			continue
		}

		ax, ay := geo.Project(u.GetLat(), u.GetLon(), point.Lat)
		bx, by := geo.Project(v.GetLat(), v.GetLon(), point.Lat)

		vx, vy := bx-ax, by-ay
		wx, wy := px-ax, py-ay

		denom := vx*vx + vy*vy
		var t, qx, qy float64
		if denom <= 1e-12 {
			// degenerate segment, project onto its start
			t = 0.0
			qx, qy = ax, ay
		} else {
			t = (wx*vx + wy*vy) / denom
			if t < 0.0 {
				t = 0.0
			} else if t > 1.0 {
				t = 1.0
			}
			qx, qy = ax+t*vx, ay+t*vy
		}

		d := math.Hypot(px-qx, py-qy)
		if d < best.planarDistKm {
			lat, lon := geo.Unproject(qx, qy, point.Lat)
			best = Projection{
				edgeIdx:      idx,
				from:         e.GetFrom(),
				to:           e.GetTo(),
				t:            t,
				coord:        geo.NewCoordinate(lat, lon),
				planarDistKm: d,
			}
			found = true
		}
	}

	return best, found
}

// SplitEdgeAndConnect inserts a snap node at the nearest-edge projection of
// point and splits the edge around it, preserving whichever directions were
// present. It returns the snap node id and the distance from point to its
// projection, or ok=false when the graph has no edges to snap onto.
func SplitEdgeAndConnect(g *datastructure.Graph, point geo.Coordinate, idPrefix string) (string, float64, bool) {
	proj, ok := NearestEdgeProjection(g, point)
	if !ok {
		return "", 0, false
	}

	u, _ := g.GetNode(proj.from)
	v, _ := g.GetNode(proj.to)

	newID := fmt.Sprintf("%s_%d", idPrefix, g.NumberOfNodes())
	g.AddNode(datastructure.NewNode(newID, proj.coord.Lat, proj.coord.Lon, datastructure.SNAP_NODE))

	dUQ := geo.HaversineKm(u.Coordinate(), proj.coord)
	dQV := geo.HaversineKm(proj.coord, v.Coordinate())

	if g.HasDirectedEdge(proj.from, proj.to) {
		_ = g.AddEdge(proj.from, newID, dUQ)
		_ = g.AddEdge(newID, proj.to, dQV)
	}
	if g.HasDirectedEdge(proj.to, proj.from) {
		_ = g.AddEdge(proj.to, newID, dQV)
		_ = g.AddEdge(newID, proj.from, dUQ)
	}

	dConn := geo.HaversineKm(point, proj.coord)
	if dConn < pkg.MIN_EDGE_WEIGHT_KM {
		dConn = pkg.MIN_EDGE_WEIGHT_KM
	}
	return newID, dConn, true
}
