package datastructure

import (
	"fmt"

	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/geo"
)

// NodeKind replaces the id-prefix convention of the original data model with
// an explicit tag; ids still carry human readable prefixes for output.
type NodeKind uint8

const (
	ROAD_NODE NodeKind = iota
	SERVICE_NODE
	REFERENCE_NODE
	SNAP_NODE
)

func (k NodeKind) String() string {
	switch k {
	case ROAD_NODE:
		return "road"
	case SERVICE_NODE:
		return "service"
	case REFERENCE_NODE:
		return "reference"
	case SNAP_NODE:
		return "snap"
	}
	return "unknown"
}

type Node struct {
	id   string
	lat  float64
	lon  float64
	kind NodeKind
}

func NewNode(id string, lat, lon float64, kind NodeKind) Node {
	return Node{
		id:   id,
		lat:  lat,
		lon:  lon,
		kind: kind,
	}
}

func (n Node) GetID() string {
	return n.id
}

func (n Node) GetLat() float64 {
	return n.lat
}

func (n Node) GetLon() float64 {
	return n.lon
}

func (n Node) GetKind() NodeKind {
	return n.kind
}

func (n Node) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(n.lat, n.lon)
}

type Edge struct {
	from     string
	to       string
	weightKm float64
}

func (e Edge) GetFrom() string {
	return e.from
}

func (e Edge) GetTo() string {
	return e.to
}

func (e Edge) GetWeightKm() float64 {
	return e.weightKm
}

type directedPair struct {
	from string
	to   string
}

// Graph is a directed weighted street graph. Edges are append-only so edge
// iteration order is the insertion order, which keeps nearest-edge
// tie-breaking deterministic.
type Graph struct {
	nodes map[string]Node
	edges []Edge
	pairs map[directedPair]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		pairs: make(map[directedPair]struct{}),
	}
}

func (g *Graph) AddNode(n Node) {
	g.nodes[n.id] = n
}

func (g *Graph) GetNode(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge appends a directed edge. Both endpoints must already exist and
// the weight is floored at the minimum edge length.
func (g *Graph) AddEdge(from, to string, weightKm float64) error {
	if !g.HasNode(from) || !g.HasNode(to) {
		return fmt.Errorf("edge (%s, %s) references unknown node", from, to)
	}
	if weightKm < pkg.MIN_EDGE_WEIGHT_KM {
		weightKm = pkg.MIN_EDGE_WEIGHT_KM
	}
	g.edges = append(g.edges, Edge{from: from, to: to, weightKm: weightKm})
	g.pairs[directedPair{from: from, to: to}] = struct{}{}
	return nil
}

// HasDirectedEdge reports whether at least one edge (from, to) exists.
func (g *Graph) HasDirectedEdge(from, to string) bool {
	_, ok := g.pairs[directedPair{from: from, to: to}]
	return ok
}

func (g *Graph) Edges() []Edge {
	return g.edges
}

func (g *Graph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) ForNodes(fn func(n Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}
