package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/pkg/errors"
)

// Text graph format, bzip2 compressed:
//
//	numNodes numEdges
//	id kind lat lon        (numNodes lines, ids sorted)
//	from to weightKm       (numEdges lines, insertion order)

func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "write graph")
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return errors.Wrap(err, "write graph")
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfNodes(), g.NumberOfEdges())

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := g.nodes[id]
		latF := strconv.FormatFloat(n.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(n.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %d %s %s\n", n.id, n.kind, latF, lonF)
	}

	for _, e := range g.edges {
		weightF := strconv.FormatFloat(e.weightKm, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s %s\n", e.from, e.to, weightF)
	}

	return w.Flush()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read graph")
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, errors.Wrap(err, "read graph")
	}
	defer bz.Close()

	sc := bufio.NewScanner(bz)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	var numNodes, numEdges int
	if !sc.Scan() {
		return nil, errors.New("read graph: missing header")
	}
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &numNodes, &numEdges); err != nil {
		return nil, errors.Wrap(err, "read graph: header")
	}

	g := NewGraph()
	for i := 0; i < numNodes; i++ {
		if !sc.Scan() {
			return nil, errors.Errorf("read graph: truncated at node %d", i)
		}
		var (
			id       string
			kind     int
			lat, lon float64
		)
		if _, err := fmt.Sscanf(sc.Text(), "%s %d %f %f", &id, &kind, &lat, &lon); err != nil {
			return nil, errors.Wrapf(err, "read graph: node %d", i)
		}
		g.AddNode(NewNode(id, lat, lon, NodeKind(kind)))
	}

	for i := 0; i < numEdges; i++ {
		if !sc.Scan() {
			return nil, errors.Errorf("read graph: truncated at edge %d", i)
		}
		var (
			from, to string
			weight   float64
		)
		if _, err := fmt.Sscanf(sc.Text(), "%s %s %f", &from, &to, &weight); err != nil {
			return nil, errors.Wrapf(err, "read graph: edge %d", i)
		}
		if err := g.AddEdge(from, to, weight); err != nil {
			return nil, errors.Wrapf(err, "read graph: edge %d", i)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read graph")
	}
	return g, nil
}
