package spatialindex

import (
	"math"

	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// NodeIndex is an r-tree over road nodes used to answer nearest-road-node
// queries without scanning the whole graph.
type NodeIndex struct {
	tr   *rtree.RTreeG[string]
	size int
}

func NewNodeIndex() *NodeIndex {
	var tr rtree.RTreeG[string]
	return &NodeIndex{tr: &tr}
}

// Build indexes every road node as a point rect. Service, reference and
// snap nodes are excluded on purpose: origins must resolve to real road
// geometry.
func (ni *NodeIndex) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("building r-tree over road nodes")

	var tr rtree.RTreeG[string]
	count := 0
	graph.ForNodes(func(n datastructure.Node) {
		if n.GetKind() != datastructure.ROAD_NODE {
			return
		}
		p := [2]float64{n.GetLon(), n.GetLat()}
		tr.Insert(p, p, n.GetID())
		count++
	})

	ni.tr = &tr
	ni.size = count
	log.Info("r-tree built", zap.Int("road_nodes", count))
}

func (ni *NodeIndex) searchWithinRadius(qLat, qLon, radius float64) []string {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]string, 0, 16)
	ni.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, id string) bool {
			results = append(results, id)
			return true
		})
	return results
}

// NearestRoadNode returns the road node with minimum haversine distance to
// c, preferring the lexicographically smaller id on exact ties. The search
// expands the query box until it finds candidates, then widens once more so
// the box inradius covers the best candidate distance.
func (ni *NodeIndex) NearestRoadNode(graph *datastructure.Graph, c geo.Coordinate) (string, bool) {
	if ni.size == 0 {
		return "", false
	}

	for radius := 0.25; radius <= 2048.0; radius *= 2 {
		if len(ni.searchWithinRadius(c.Lat, c.Lon, radius)) == 0 {
			continue
		}
		candidates := ni.searchWithinRadius(c.Lat, c.Lon, 2*radius)
		return nearestOf(graph, candidates, c)
	}
	return "", false
}

func nearestOf(graph *datastructure.Graph, candidates []string, c geo.Coordinate) (string, bool) {
	bestID := ""
	bestDist := math.Inf(1)
	for _, id := range candidates {
		n, ok := graph.GetNode(id)
		if !ok {
			continue
		}
		d := geo.HaversineKm(c, n.Coordinate())
		if d < bestDist || (d == bestDist && id < bestID) {
			bestDist = d
			bestID = id
		}
	}
	if bestID == "" {
		return "", false
	}
	return bestID, true
}
