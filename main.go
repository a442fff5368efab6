package main

import (
	"context"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/logger"
	"github.com/emergia-gye/emergia/pkg/osmparser"
	"github.com/emergia-gye/emergia/pkg/overpass"
)

// offline network build: download, integrate catalogs and write the graph
// file consumed by deployments without Overpass access.
func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	client := overpass.NewClient("", 0, log)
	bbox, _ := overpass.DefaultCoverage()
	doc := client.FetchRoadNetwork(context.Background(), bbox)

	graph := osmparser.NewNetworkBuilder(log).Build(doc)

	integrator := catalog.NewIntegrator(catalog.Default(), log)
	integrator.SetCoverage(bbox)
	integrator.Attach(graph)

	if err := graph.WriteGraph("./data/guayaquil.graph"); err != nil {
		panic(err)
	}
	if _, err := datastructure.ReadGraph("./data/guayaquil.graph"); err != nil {
		panic(err)
	}
}
