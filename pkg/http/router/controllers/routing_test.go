package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/system"
	"github.com/emergia-gye/emergia/pkg/util"
	"go.uber.org/zap"
)

// stubService answers with canned data so handler behavior is isolated
// from the routing pipeline.
type stubService struct {
	routeErr   error
	facilities []system.FacilityResult
	prepared   bool
	loadCalled bool
}

func (s *stubService) LoadNetwork(_ context.Context, _ bool) error {
	s.loadCalled = true
	return nil
}

func (s *stubService) Prepare() error {
	s.prepared = true
	return nil
}

func (s *stubService) NetworkStats() (int, int, bool) {
	return 10, 18, s.prepared
}

func (s *stubService) Route(origin, destination string) (*datastructure.RouteResult, error) {
	if s.routeErr != nil {
		return nil, s.routeErr
	}
	return datastructure.NewRouteResult(
		[]string{origin, "node_1", destination},
		[]geo.Coordinate{
			geo.NewCoordinate(-2.1448, -79.9663),
			geo.NewCoordinate(-2.1550, -79.9520),
			geo.NewCoordinate(-2.1672, -79.9378),
		},
		4.03, 9.67), nil
}

func (s *stubService) ResolveNamedLocation(text string) (geo.Coordinate, bool) {
	if strings.EqualFold(strings.TrimSpace(text), "espol") {
		return geo.NewCoordinate(-2.1448, -79.9663), true
	}
	return geo.Coordinate{}, false
}

func (s *stubService) NearestFacilities(_ geo.Coordinate, _ catalog.Category, _ int) []system.FacilityResult {
	return s.facilities
}

func TestRouteHandler(t *testing.T) {
	api := New(&stubService{}, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/route?origin=ref_ESPOL&destination=service_InterHospital", nil)
	w := httptest.NewRecorder()
	api.route(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Data routeResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Origin != "ref_ESPOL" || body.Data.Destination != "service_InterHospital" {
		t.Errorf("echoed endpoints wrong: %+v", body.Data)
	}
	if body.Data.DistanceKm != 4.03 {
		t.Errorf("distance = %f", body.Data.DistanceKm)
	}
	if body.Data.Polyline == "" {
		t.Error("response must carry an encoded polyline")
	}
	if body.Data.Geometry == nil {
		t.Error("response must carry GeoJSON geometry")
	}
}

func TestRouteHandlerMissingParams(t *testing.T) {
	api := New(&stubService{}, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/route?origin=ref_ESPOL", nil)
	w := httptest.NewRecorder()
	api.route(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("missing destination must 400, got %d", w.Code)
	}
}

func TestRouteHandlerNotFound(t *testing.T) {
	svc := &stubService{
		routeErr: util.WrapErrorf(nil, util.ErrNotFound, "no route"),
	}
	api := New(svc, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/route?origin=a&destination=b", nil)
	w := httptest.NewRecorder()
	api.route(w, r, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("unroutable pair must 404, got %d", w.Code)
	}
}

func TestNearestFacilitiesHandler(t *testing.T) {
	svc := &stubService{
		facilities: []system.FacilityResult{
			{
				Service: catalog.EmergencyService{
					Name:     "Hospital del IESS Los Ceibos",
					Category: catalog.HOSPITAL,
					Coord:    geo.NewCoordinate(-2.175396, -79.941602),
					Phone:    "(04) 380-5130",
				},
				DistanceKm: 3.2,
				EtaMinutes: 7.68,
				Route: datastructure.NewRouteResult(
					[]string{"node_0", "service_x"},
					[]geo.Coordinate{
						geo.NewCoordinate(-2.1448, -79.9663),
						geo.NewCoordinate(-2.175396, -79.941602),
					},
					3.2, 7.68),
			},
		},
	}
	api := New(svc, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet,
		"/api/facilities/nearest?lat=-2.1448&lon=-79.9663&category=Hospital&limit=3", nil)
	w := httptest.NewRecorder()
	api.nearestFacilities(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Data []facilityResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("want 1 facility, got %d", len(body.Data))
	}
	if body.Data[0].Name != "Hospital del IESS Los Ceibos" {
		t.Errorf("facility name = %s", body.Data[0].Name)
	}
	if body.Data[0].DistanceKm != 3.2 {
		t.Errorf("distance = %f", body.Data[0].DistanceKm)
	}
}

func TestNearestFacilitiesHandlerValidation(t *testing.T) {
	api := New(&stubService{}, zap.NewNop())

	testCases := []struct {
		name string
		url  string
	}{
		{name: "missing lat", url: "/api/facilities/nearest?lon=-79.96&category=Hospital"},
		{name: "bad lon", url: "/api/facilities/nearest?lat=-2.14&lon=west&category=Hospital"},
		{name: "missing category", url: "/api/facilities/nearest?lat=-2.14&lon=-79.96"},
		{name: "unknown category", url: "/api/facilities/nearest?lat=-2.14&lon=-79.96&category=Escuela"},
		{name: "bad limit", url: "/api/facilities/nearest?lat=-2.14&lon=-79.96&category=Hospital&limit=soon"},
		{name: "limit above cap", url: "/api/facilities/nearest?lat=-2.14&lon=-79.96&category=Hospital&limit=99"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			api.nearestFacilities(w, r, nil)

			if w.Code != http.StatusBadRequest {
				t.Errorf("want 400, got %d", w.Code)
			}
		})
	}
}

func TestResolveLocationHandler(t *testing.T) {
	api := New(&stubService{}, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/locations/resolve?q=ESPOL", nil)
	w := httptest.NewRecorder()
	api.resolveLocation(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Data resolveLocationResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Lat != -2.1448 || body.Data.Lon != -79.9663 {
		t.Errorf("resolved to %f,%f", body.Data.Lat, body.Data.Lon)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/locations/resolve?q=Quito", nil)
	w = httptest.NewRecorder()
	api.resolveLocation(w, r, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown location must 404, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/locations/resolve", nil)
	w = httptest.NewRecorder()
	api.resolveLocation(w, r, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query must 400, got %d", w.Code)
	}
}

func TestLoadAndStatusHandlers(t *testing.T) {
	svc := &stubService{}
	api := New(svc, zap.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/network/load",
		strings.NewReader(`{"use_reduced_area":true}`))
	w := httptest.NewRecorder()
	api.loadNetwork(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !svc.loadCalled {
		t.Error("handler must call LoadNetwork")
	}

	// empty body is accepted, defaults apply
	r = httptest.NewRequest(http.MethodPost, "/api/network/load", nil)
	w = httptest.NewRecorder()
	api.loadNetwork(w, r, nil)
	if w.Code != http.StatusOK {
		t.Errorf("empty body must be accepted, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/network/prepare", nil)
	w = httptest.NewRecorder()
	api.prepareNetwork(w, r, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("prepare status = %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/network/status", nil)
	w = httptest.NewRecorder()
	api.networkStatus(w, r, nil)

	var body struct {
		Data networkStatusResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Nodes != 10 || body.Data.Edges != 18 || !body.Data.Prepared {
		t.Errorf("status payload wrong: %+v", body.Data)
	}
}
