package catalog

import (
	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/snap"
	"go.uber.org/zap"
)

// Integrator attaches the static catalogs onto a built road graph by
// snapping each entry onto its nearest edge.
type Integrator struct {
	catalog     *Catalog
	coverage    geo.BoundingBox
	hasCoverage bool
	log         *zap.Logger
}

func NewIntegrator(cat *Catalog, log *zap.Logger) *Integrator {
	return &Integrator{catalog: cat, log: log}
}

// SetCoverage enables warnings for catalog entries outside the served area.
// Out-of-coverage entries are still attached.
func (it *Integrator) SetCoverage(bbox geo.BoundingBox) {
	it.coverage = bbox
	it.hasCoverage = true
}

func (it *Integrator) warnOutsideCoverage(name string, c geo.Coordinate) {
	if it.hasCoverage && !it.coverage.Contains(c) {
		it.log.Warn("catalog entry outside the served area",
			zap.String("name", name),
			zap.Float64("lat", c.Lat),
			zap.Float64("lon", c.Lon))
	}
}

// Attach inserts service and reference nodes and connects them to snap
// nodes on the road network. No-op when the graph is nil.
func (it *Integrator) Attach(g *datastructure.Graph) {
	if g == nil {
		return
	}
	it.log.Info("integrating services and reference locations into the network")

	for _, svc := range it.catalog.Services() {
		it.warnOutsideCoverage(svc.Name, svc.Coord)

		nodeID := svc.NodeID()
		g.AddNode(datastructure.NewNode(nodeID, svc.Coord.Lat, svc.Coord.Lon, datastructure.SERVICE_NODE))

		snapID, dConn, ok := snap.SplitEdgeAndConnect(g, svc.Coord, "snap")
		if !ok {
			it.log.Warn("service could not be snapped onto the network",
				zap.String("service", svc.Name))
			continue
		}
		_ = g.AddEdge(nodeID, snapID, dConn)
		_ = g.AddEdge(snapID, nodeID, dConn)
	}

	for _, ref := range it.catalog.References() {
		it.warnOutsideCoverage(ref.Name, ref.Coord)

		nodeID := ref.NodeID()
		g.AddNode(datastructure.NewNode(nodeID, ref.Coord.Lat, ref.Coord.Lon, datastructure.REFERENCE_NODE))

		snapID, dConn, ok := snap.SplitEdgeAndConnect(g, ref.Coord, "snap")
		if !ok || snapID == nodeID {
			continue
		}
		// cap reference connectors so faraway snap artifacts do not skew
		// landmark based searches
		if dConn > pkg.REF_CONNECTOR_CAP_KM {
			dConn = pkg.REF_CONNECTOR_CAP_KM
		}
		_ = g.AddEdge(nodeID, snapID, dConn)
		_ = g.AddEdge(snapID, nodeID, dConn)
	}

	it.log.Info("network integration finished",
		zap.Int("nodes", g.NumberOfNodes()),
		zap.Int("edges", g.NumberOfEdges()))
}
