package osmparser

import (
	"fmt"
	"math"

	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/overpass"
	"github.com/emergia-gye/emergia/pkg/util"
	"go.uber.org/zap"
)

type directionMode uint8

const (
	BOTH_DIRECTIONS directionMode = iota
	FORWARD_ONLY
	BACKWARD_ONLY
)

// directionOf derives per-way directionality from osm tags.
func directionOf(el overpass.Element) directionMode {
	switch el.Tag("oneway") {
	case "yes", "true", "1":
		return FORWARD_ONLY
	case "-1":
		return BACKWARD_ONLY
	}
	if el.Tag("junction") == "roundabout" {
		return FORWARD_ONLY
	}
	return BOTH_DIRECTIONS
}

// NetworkBuilder converts an Overpass document into a routable graph:
// coincident coordinates collapse into single nodes and each way emits
// haversine-weighted directed edges between consecutive kept points.
type NetworkBuilder struct {
	log *zap.Logger
}

func NewNetworkBuilder(log *zap.Logger) *NetworkBuilder {
	return &NetworkBuilder{log: log}
}

// downsampleStride bounds the total node count. The target keeps headroom
// for service, reference and snap nodes added later.
func (nb *NetworkBuilder) downsampleStride(totalPoints int) int {
	target := util.Max(pkg.MIN_NODE_TARGET, pkg.MAX_NODES-pkg.NODE_RESERVE)
	if totalPoints <= target {
		return 1
	}
	stride := util.Max(1, int(math.Ceil(float64(totalPoints)*pkg.DOWNSAMPLE_HEADROOM/float64(target))))
	nb.log.Info("downsampling way geometry",
		zap.Int("total_points", totalPoints),
		zap.Int("target", target),
		zap.Int("stride", stride))
	return stride
}

func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.*f,%.*f", pkg.COORD_KEY_PRECISION, lat, pkg.COORD_KEY_PRECISION, lon)
}

func (nb *NetworkBuilder) Build(doc *overpass.Document) *datastructure.Graph {
	stride := nb.downsampleStride(doc.TotalWayPoints())

	g := datastructure.NewGraph()
	coordToID := make(map[string]string)
	nodeCounter := 0

	for _, el := range doc.Elements {
		if !el.IsWay() {
			continue
		}
		dir := directionOf(el)

		// keep stride multiples plus, always, the final point of the way
		wayNodes := make([]string, 0, len(el.Geometry))
		for idx, pt := range el.Geometry {
			if stride > 1 && idx%stride != 0 && idx != len(el.Geometry)-1 {
				continue
			}
			key := coordKey(pt.Lat, pt.Lon)
			id, ok := coordToID[key]
			if !ok {
				id = fmt.Sprintf("node_%d", nodeCounter)
				nodeCounter++
				coordToID[key] = id
				g.AddNode(datastructure.NewNode(id, pt.Lat, pt.Lon, datastructure.ROAD_NODE))
			}
			wayNodes = append(wayNodes, id)
		}

		for i := 0; i+1 < len(wayNodes); i++ {
			n1, n2 := wayNodes[i], wayNodes[i+1]
			if n1 == n2 {
				continue
			}
			c1, _ := g.GetNode(n1)
			c2, _ := g.GetNode(n2)
			dist := geo.HaversineKm(c1.Coordinate(), c2.Coordinate())

			if dir == BOTH_DIRECTIONS || dir == FORWARD_ONLY {
				_ = g.AddEdge(n1, n2, dist)
			}
			if dir == BOTH_DIRECTIONS || dir == BACKWARD_ONLY {
				_ = g.AddEdge(n2, n1, dist)
			}
		}
	}

	nb.log.Info("road network built",
		zap.Int("nodes", g.NumberOfNodes()),
		zap.Int("edges", g.NumberOfEdges()))
	return g
}
