package system

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/concurrent"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/engine"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/osmparser"
	"github.com/emergia-gye/emergia/pkg/overpass"
	"github.com/emergia-gye/emergia/pkg/snap"
	"github.com/emergia-gye/emergia/pkg/spatialindex"
	"github.com/emergia-gye/emergia/pkg/util"
	"go.uber.org/zap"
)

const defaultFacilityLimit = 3

// Provider abstracts the map-data source; the Overpass client and test
// doubles implement it.
type Provider interface {
	FetchRoadNetwork(ctx context.Context, bbox geo.BoundingBox) *overpass.Document
}

// System owns one independent instance of the whole pipeline: provider,
// catalogs, road graph, path matrices and spatial index. A rebuild swaps
// graph, engine and index together, so queries never mix states.
type System struct {
	log      *zap.Logger
	provider Provider
	builder  *osmparser.NetworkBuilder
	catalog  *catalog.Catalog

	coverageFull    geo.BoundingBox
	coverageReduced geo.BoundingBox

	mu        sync.RWMutex
	graph     *datastructure.Graph
	engine    *engine.PathEngine
	nodeIndex *spatialindex.NodeIndex
}

func New(provider Provider, cat *catalog.Catalog, log *zap.Logger) *System {
	full, reduced := overpass.DefaultCoverage()
	return &System{
		log:             log,
		provider:        provider,
		builder:         osmparser.NewNetworkBuilder(log),
		catalog:         cat,
		coverageFull:    full,
		coverageReduced: reduced,
	}
}

func (s *System) Catalog() *catalog.Catalog {
	return s.catalog
}

// LoadNetwork fetches a fresh document (or the fallback), builds the graph
// and attaches the catalogs. Any previously prepared state is discarded:
// matrices from an older graph must never answer queries for the new one.
func (s *System) LoadNetwork(ctx context.Context, useReducedArea bool) error {
	bbox := s.coverageFull
	if useReducedArea {
		bbox = s.coverageReduced
	}

	doc := s.provider.FetchRoadNetwork(ctx, bbox)
	g := s.builder.Build(doc)

	integrator := catalog.NewIntegrator(s.catalog, s.log)
	integrator.SetCoverage(bbox)
	integrator.Attach(g)

	s.mu.Lock()
	s.graph = g
	s.engine = nil
	s.nodeIndex = nil
	s.mu.Unlock()
	return nil
}

// Prepare builds the all-pairs matrices and the road-node spatial index for
// the current graph, replacing both atomically.
func (s *System) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "road network not loaded")
	}

	eng := engine.NewPathEngine(s.log)
	if err := eng.Prepare(s.graph); err != nil {
		return err
	}

	idx := spatialindex.NewNodeIndex()
	idx.Build(s.graph, s.log)

	s.engine = eng
	s.nodeIndex = idx
	return nil
}

func (s *System) Prepared() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine != nil && s.engine.Prepared()
}

// NetworkStats reports node and edge counts plus the prepared flag.
func (s *System) NetworkStats() (nodes, edges int, prepared bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return 0, 0, false
	}
	return s.graph.NumberOfNodes(), s.graph.NumberOfEdges(), s.engine != nil && s.engine.Prepared()
}

// Route answers a point-to-point query between two node ids.
func (s *System) Route(origin, destination string) (*datastructure.RouteResult, error) {
	s.mu.RLock()
	eng := s.engine
	s.mu.RUnlock()

	if eng == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "path engine not prepared")
	}
	return eng.Route(origin, destination)
}

// SnapPoint exposes edge splitting for ad-hoc points of interest.
func (s *System) SnapPoint(point geo.Coordinate, idPrefix string) (string, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return "", 0, false
	}
	return snap.SplitEdgeAndConnect(s.graph, point, idPrefix)
}

// NearestRoadNode resolves a coordinate to the closest road node. Service,
// reference and snap nodes never qualify.
func (s *System) NearestRoadNode(c geo.Coordinate) (string, bool) {
	s.mu.RLock()
	g := s.graph
	idx := s.nodeIndex
	s.mu.RUnlock()

	if g == nil || g.NumberOfNodes() == 0 {
		return "", false
	}
	if idx != nil {
		if id, ok := idx.NearestRoadNode(g, c); ok {
			return id, ok
		}
	}
	return nearestRoadNodeScan(g, c)
}

// nearestRoadNodeScan is the index-free fallback used before preparation.
func nearestRoadNodeScan(g *datastructure.Graph, c geo.Coordinate) (string, bool) {
	bestID := ""
	bestDist := 0.0
	g.ForNodes(func(n datastructure.Node) {
		if n.GetKind() != datastructure.ROAD_NODE {
			return
		}
		d := geo.HaversineKm(c, n.Coordinate())
		if bestID == "" || d < bestDist || (d == bestDist && n.GetID() < bestID) {
			bestID = n.GetID()
			bestDist = d
		}
	})
	if bestID == "" {
		return "", false
	}
	return bestID, true
}

// ResolveNamedLocation matches free text against the reference catalog:
// case-insensitive exact match first, then substring in either direction.
func (s *System) ResolveNamedLocation(text string) (geo.Coordinate, bool) {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return geo.Coordinate{}, false
	}

	for _, ref := range s.catalog.References() {
		if query == strings.ToLower(ref.Name) {
			return ref.Coord, true
		}
	}
	for _, ref := range s.catalog.References() {
		name := strings.ToLower(ref.Name)
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return ref.Coord, true
		}
	}
	return geo.Coordinate{}, false
}

// FacilityResult is one ranked answer of a nearest-facility search.
type FacilityResult struct {
	Service    catalog.EmergencyService
	DistanceKm float64
	EtaMinutes float64
	Route      *datastructure.RouteResult
}

// NearestFacilities ranks the services of one category by true path
// distance from the road node closest to origin. Unreachable services are
// dropped; at most limit results are returned. The route fan-out runs on a
// worker pool since prepared matrices are read-only.
func (s *System) NearestFacilities(origin geo.Coordinate, cat catalog.Category, limit int) []FacilityResult {
	if !cat.Valid() || !s.Prepared() {
		return []FacilityResult{}
	}
	if limit <= 0 {
		limit = defaultFacilityLimit
	}

	originNode, ok := s.NearestRoadNode(origin)
	if !ok {
		return []FacilityResult{}
	}

	services := s.catalog.ServicesByCategory(cat)
	if len(services) == 0 {
		return []FacilityResult{}
	}

	pool := concurrent.NewWorkerPool[catalog.EmergencyService, *FacilityResult](
		util.Min(runtime.NumCPU(), len(services)), len(services))
	pool.Start(func(svc catalog.EmergencyService) *FacilityResult {
		route, err := s.Route(originNode, svc.NodeID())
		if err != nil {
			return nil
		}
		return &FacilityResult{
			Service:    svc,
			DistanceKm: route.GetDistanceKm(),
			EtaMinutes: route.GetEtaMinutes(),
			Route:      route,
		}
	})
	for _, svc := range services {
		pool.Submit(svc)
	}
	pool.Wait()

	results := make([]FacilityResult, 0, len(services))
	for res := range pool.CollectResults() {
		if res != nil {
			results = append(results, *res)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Service.Name < results[j].Service.Name
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
