package engine

import (
	"sort"
	"time"

	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/util"
	"go.uber.org/zap"
)

// PathEngine answers point-to-point route queries from dense all-pairs
// distance and successor matrices. It moves from unprepared to prepared
// exactly once per graph; a rebuilt graph needs a fresh Prepare.
type PathEngine struct {
	log *zap.Logger

	graph       *datastructure.Graph
	nodeToIndex map[string]int
	indexToNode []string

	dist [][]float64
	succ [][]int32

	prepared bool
}

func NewPathEngine(log *zap.Logger) *PathEngine {
	return &PathEngine{log: log}
}

func (pe *PathEngine) Prepared() bool {
	return pe.prepared
}

// Prepare consumes the POI-integrated graph and runs the all-pairs
// relaxation. It refuses graphs above the preparation ceiling: the cubic
// run over more nodes would not finish interactively.
func (pe *PathEngine) Prepare(g *datastructure.Graph) error {
	if g == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "road network not loaded")
	}
	n := g.NumberOfNodes()
	if n > pkg.MAX_PREPARED_NODES {
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"graph has %d nodes, above the %d node preparation ceiling", n, pkg.MAX_PREPARED_NODES)
	}

	pe.log.Info("preparing all-pairs shortest path matrices", zap.Int("nodes", n))
	start := time.Now()

	// dense index over sorted ids, reused by both matrices
	ids := make([]string, 0, n)
	g.ForNodes(func(node datastructure.Node) {
		ids = append(ids, node.GetID())
	})
	sort.Strings(ids)

	nodeToIndex := make(map[string]int, n)
	for i, id := range ids {
		nodeToIndex[id] = i
	}

	dist := make([][]float64, n)
	succ := make([][]int32, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		succ[i] = make([]int32, n)
		for j := 0; j < n; j++ {
			dist[i][j] = pkg.INF_WEIGHT
			succ[i][j] = -1
		}
		dist[i][i] = 0.0
		succ[i][i] = int32(i)
	}

	// parallel edges collapse to the minimum weight
	for _, e := range g.Edges() {
		i, okFrom := nodeToIndex[e.GetFrom()]
		j, okTo := nodeToIndex[e.GetTo()]
		if !okFrom || !okTo {
			continue
		}
		if e.GetWeightKm() < dist[i][j] {
			dist[i][j] = e.GetWeightKm()
			succ[i][j] = int32(j)
		}
	}

	progressStep := util.Max(1, n/10)
	for k := 0; k < n; k++ {
		if n >= 10 && k%progressStep == 0 {
			pe.log.Info("relaxation progress", zap.Float64("percent", float64(k)/float64(n)*100.0))
		}
		rowK := dist[k]
		for i := 0; i < n; i++ {
			dik := dist[i][k]
			if dik >= pkg.INF_WEIGHT {
				continue
			}
			rowI := dist[i]
			succI := succ[i]
			for j := 0; j < n; j++ {
				if alt := dik + rowK[j]; alt < rowI[j] {
					rowI[j] = alt
					succI[j] = succI[k]
				}
			}
		}
	}

	pe.graph = g
	pe.nodeToIndex = nodeToIndex
	pe.indexToNode = ids
	pe.dist = dist
	pe.succ = succ
	pe.prepared = true

	pe.log.Info("all-pairs preparation finished",
		zap.Int("nodes", n),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Distance returns the matrix distance between two node ids. ok is false
// for unknown ids or an unprepared engine; an unreachable pair reports a
// distance >= pkg.INF_WEIGHT.
func (pe *PathEngine) Distance(origin, destination string) (float64, bool) {
	if !pe.prepared {
		return 0, false
	}
	i, okI := pe.nodeToIndex[origin]
	j, okJ := pe.nodeToIndex[destination]
	if !okI || !okJ {
		return 0, false
	}
	return pe.dist[i][j], true
}

// Route reconstructs the shortest path by walking successor pointers.
func (pe *PathEngine) Route(origin, destination string) (*datastructure.RouteResult, error) {
	if !pe.prepared {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "path engine not prepared")
	}
	i, okI := pe.nodeToIndex[origin]
	j, okJ := pe.nodeToIndex[destination]
	if !okI || !okJ {
		return nil, util.WrapErrorf(nil, util.ErrNotFound,
			"unknown node in route query (%s, %s)", origin, destination)
	}
	if pe.succ[i][j] < 0 {
		return nil, util.WrapErrorf(nil, util.ErrNotFound,
			"no route from %s to %s", origin, destination)
	}

	pathIdx := []int32{int32(i)}
	current := int32(i)
	for current != int32(j) {
		current = pe.succ[current][j]
		if current < 0 {
			return nil, util.WrapErrorf(nil, util.ErrNotFound,
				"no route from %s to %s", origin, destination)
		}
		pathIdx = append(pathIdx, current)
		if len(pathIdx) > len(pe.indexToNode) {
			return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
				"successor cycle between %s and %s", origin, destination)
		}
	}

	nodeIDs := make([]string, len(pathIdx))
	coords := make([]geo.Coordinate, len(pathIdx))
	for idx, nodeIdx := range pathIdx {
		id := pe.indexToNode[nodeIdx]
		nodeIDs[idx] = id
		node, _ := pe.graph.GetNode(id)
		coords[idx] = node.Coordinate()
	}

	distanceKm := pe.dist[i][j]
	etaMinutes := distanceKm / pkg.AVERAGE_SPEED_KMH * 60.0
	return datastructure.NewRouteResult(nodeIDs, coords, distanceKm, etaMinutes), nil
}
