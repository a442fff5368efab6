package controllers

import (
	"context"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/datastructure"
	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/emergia-gye/emergia/pkg/system"
)

type EmergencyRoutingService interface {
	LoadNetwork(ctx context.Context, useReducedArea bool) error
	Prepare() error
	NetworkStats() (nodes, edges int, prepared bool)
	Route(origin, destination string) (*datastructure.RouteResult, error)
	ResolveNamedLocation(text string) (geo.Coordinate, bool)
	NearestFacilities(origin geo.Coordinate, cat catalog.Category, limit int) []system.FacilityResult
}
