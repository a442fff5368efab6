package system

import (
	"context"
	"strings"
	"testing"

	"github.com/emergia-gye/emergia/pkg"
	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/overpass"
	"go.uber.org/zap"
)

// stubProvider serves a canned document so no network is involved.
type stubProvider struct {
	doc *overpass.Document
}

func (p *stubProvider) FetchRoadNetwork(_ context.Context, _ geo.BoundingBox) *overpass.Document {
	return p.doc
}

func fallbackSystem(t *testing.T) *System {
	t.Helper()
	return New(&stubProvider{doc: overpass.FallbackDocument()}, catalog.Default(), zap.NewNop())
}

func loadedAndPrepared(t *testing.T) *System {
	t.Helper()
	sys := fallbackSystem(t)
	if err := sys.LoadNetwork(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if err := sys.Prepare(); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestPrepareWithoutLoad(t *testing.T) {
	sys := fallbackSystem(t)

	if err := sys.Prepare(); err == nil {
		t.Fatal("prepare before load must fail")
	}
	if sys.Prepared() {
		t.Error("system must stay unprepared")
	}
}

func TestLoadNetworkDiscardsPreparedState(t *testing.T) {
	sys := loadedAndPrepared(t)

	if err := sys.LoadNetwork(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if sys.Prepared() {
		t.Error("reload must discard the prepared matrices")
	}
	if _, err := sys.Route("ref_ESPOL", "ref_Los_Ceibos"); err == nil {
		t.Error("route queries must refuse until a fresh prepare")
	}
}

func TestNetworkStats(t *testing.T) {
	sys := fallbackSystem(t)

	nodes, edges, prepared := sys.NetworkStats()
	if nodes != 0 || edges != 0 || prepared {
		t.Errorf("empty system must report zero stats, got %d/%d/%v", nodes, edges, prepared)
	}

	if err := sys.LoadNetwork(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	nodes, edges, prepared = sys.NetworkStats()
	if nodes == 0 || edges == 0 {
		t.Errorf("loaded network must have nodes and edges, got %d/%d", nodes, edges)
	}
	if prepared {
		t.Error("load alone must not mark the system prepared")
	}

	if err := sys.Prepare(); err != nil {
		t.Fatal(err)
	}
	if _, _, prepared = sys.NetworkStats(); !prepared {
		t.Error("stats must report prepared after Prepare")
	}
}

func TestRouteBetweenReferences(t *testing.T) {
	sys := loadedAndPrepared(t)

	route, err := sys.Route("ref_ESPOL", "ref_Los_Ceibos")
	if err != nil {
		t.Fatal(err)
	}

	// the fallback corridor is about 4 km long
	if route.GetDistanceKm() < 3.5 || route.GetDistanceKm() > 4.5 {
		t.Errorf("ESPOL to Ceibos distance out of range: %f km", route.GetDistanceKm())
	}

	wantEta := route.GetDistanceKm() / pkg.AVERAGE_SPEED_KMH * 60.0
	if route.GetEtaMinutes() != wantEta {
		t.Errorf("eta %f, want %f", route.GetEtaMinutes(), wantEta)
	}

	ids := route.GetNodeIDs()
	if ids[0] != "ref_ESPOL" || ids[len(ids)-1] != "ref_Los_Ceibos" {
		t.Errorf("route endpoints wrong: %v", ids)
	}
	if len(route.GetCoords()) != len(ids) {
		t.Error("route coords must match node count")
	}
}

func TestRouteRespectsOneway(t *testing.T) {
	doc := overpass.FallbackDocument()
	doc.Elements[0].Tags = map[string]string{"oneway": "yes"}

	sys := New(&stubProvider{doc: doc}, catalog.New(nil, nil), zap.NewNop())
	if err := sys.LoadNetwork(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if err := sys.Prepare(); err != nil {
		t.Fatal(err)
	}

	if _, err := sys.Route("node_0", "node_1"); err != nil {
		t.Errorf("forward route must exist: %v", err)
	}
	if _, err := sys.Route("node_1", "node_0"); err == nil {
		t.Error("route against the oneway must not exist")
	}
}

func TestNearestRoadNodeBeforeAndAfterPrepare(t *testing.T) {
	sys := fallbackSystem(t)

	if _, ok := sys.NearestRoadNode(geo.NewCoordinate(-2.15, -79.95)); ok {
		t.Error("empty system must not resolve road nodes")
	}

	if err := sys.LoadNetwork(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	// scan fallback before prepare
	id, ok := sys.NearestRoadNode(geo.NewCoordinate(-2.1449, -79.9662))
	if !ok {
		t.Fatal("loaded system must resolve road nodes")
	}
	if !strings.HasPrefix(id, "node_") {
		t.Errorf("nearest must be a road node, got %s", id)
	}

	if err := sys.Prepare(); err != nil {
		t.Fatal(err)
	}
	// indexed path after prepare must agree
	idIndexed, ok := sys.NearestRoadNode(geo.NewCoordinate(-2.1449, -79.9662))
	if !ok || idIndexed != id {
		t.Errorf("indexed lookup (%s) must agree with the scan (%s)", idIndexed, id)
	}
}

func TestResolveNamedLocation(t *testing.T) {
	sys := fallbackSystem(t)

	testCases := []struct {
		name  string
		query string
		found bool
	}{
		{name: "exact", query: "ESPOL", found: true},
		{name: "case insensitive", query: "espol", found: true},
		{name: "query contains name", query: "cerca de riocentro ceibos", found: true},
		{name: "name contains query", query: "cumbres", found: true},
		{name: "whitespace trimmed", query: "  Los Ceibos  ", found: true},
		{name: "unknown", query: "Quito", found: false},
		{name: "empty", query: "   ", found: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			coord, ok := sys.ResolveNamedLocation(tt.query)
			if ok != tt.found {
				t.Fatalf("resolve(%q) ok=%v, want %v", tt.query, ok, tt.found)
			}
			if ok && (coord.Lat == 0 || coord.Lon == 0) {
				t.Errorf("resolved coordinate is zero: %v", coord)
			}
		})
	}
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	sys := fallbackSystem(t)

	// "ESPOL" is both an exact name and a substring of several faculty
	// names; the exact entry must win
	coord, ok := sys.ResolveNamedLocation("espol")
	if !ok {
		t.Fatal("ESPOL must resolve")
	}
	want := geo.NewCoordinate(-2.1448, -79.9663)
	if coord != want {
		t.Errorf("resolved %v, want the exact ESPOL entry %v", coord, want)
	}
}

func TestNearestFacilities(t *testing.T) {
	sys := loadedAndPrepared(t)
	origin := geo.NewCoordinate(-2.1448, -79.9663)

	results := sys.NearestFacilities(origin, catalog.HOSPITAL, 3)
	if len(results) == 0 {
		t.Fatal("hospitals must be reachable from the corridor")
	}
	if len(results) > 2 {
		t.Fatalf("catalog has 2 hospitals, got %d results", len(results))
	}

	for i, res := range results {
		if res.Service.Category != catalog.HOSPITAL {
			t.Errorf("result %d has category %s", i, res.Service.Category)
		}
		if res.DistanceKm <= 0 {
			t.Errorf("result %d distance must be positive, got %f", i, res.DistanceKm)
		}
		wantEta := res.DistanceKm / pkg.AVERAGE_SPEED_KMH * 60.0
		if res.EtaMinutes != wantEta {
			t.Errorf("result %d eta %f, want %f", i, res.EtaMinutes, wantEta)
		}
		if res.Route == nil {
			t.Errorf("result %d missing its route", i)
		}
		if i > 0 && results[i-1].DistanceKm > res.DistanceKm {
			t.Error("results must be sorted by distance")
		}
	}
}

func TestNearestFacilitiesLimit(t *testing.T) {
	sys := loadedAndPrepared(t)
	origin := geo.NewCoordinate(-2.1448, -79.9663)

	if got := sys.NearestFacilities(origin, catalog.POLICE, 1); len(got) > 1 {
		t.Errorf("limit 1 must cap the results, got %d", len(got))
	}

	// non-positive limit falls back to the default
	got := sys.NearestFacilities(origin, catalog.POLICE, 0)
	if len(got) == 0 || len(got) > defaultFacilityLimit {
		t.Errorf("default limit violated, got %d results", len(got))
	}
}

func TestNearestFacilitiesGuards(t *testing.T) {
	origin := geo.NewCoordinate(-2.1448, -79.9663)

	unprepared := fallbackSystem(t)
	if got := unprepared.NearestFacilities(origin, catalog.HOSPITAL, 3); len(got) != 0 {
		t.Errorf("unprepared system must return no facilities, got %d", len(got))
	}

	sys := loadedAndPrepared(t)
	if got := sys.NearestFacilities(origin, catalog.Category("Escuela"), 3); len(got) != 0 {
		t.Errorf("invalid category must return no facilities, got %d", len(got))
	}
}

func TestSnapPoint(t *testing.T) {
	sys := fallbackSystem(t)

	if _, _, ok := sys.SnapPoint(geo.NewCoordinate(-2.15, -79.95), "poi"); ok {
		t.Error("empty system must not snap")
	}

	if err := sys.LoadNetwork(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	id, dConn, ok := sys.SnapPoint(geo.NewCoordinate(-2.156, -79.952), "poi")
	if !ok {
		t.Fatal("loaded system must snap")
	}
	if !strings.HasPrefix(id, "poi_") {
		t.Errorf("snap id must carry the prefix, got %s", id)
	}
	if dConn < pkg.MIN_EDGE_WEIGHT_KM {
		t.Errorf("connector distance %f under the floor", dConn)
	}
}
