package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/geo"
	helper "github.com/emergia-gye/emergia/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	service EmergencyRoutingService
	log     *zap.Logger
}

func New(service EmergencyRoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		service: service,
		log:     log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
	group.GET("/facilities/nearest", api.nearestFacilities)
	group.GET("/locations/resolve", api.resolveLocation)
	group.POST("/network/load", api.loadNetwork)
	group.POST("/network/prepare", api.prepareNetwork)
	group.GET("/network/status", api.networkStatus)
}

func (api *routingAPI) validationErrors(err error) error {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	vv := translateError(err, trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request routeRequest

	query := r.URL.Query()
	request.Origin = query.Get("origin")
	request.Destination = query.Get("destination")

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, api.validationErrors(err))
		return
	}

	route, err := api.service.Route(request.Origin, request.Destination)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": newRouteResponse(request.Origin, request.Destination, route)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) nearestFacilities(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestFacilitiesRequest
		err     error
	)

	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	request.Category = query.Get("category")
	if limitStr := query.Get("limit"); limitStr != "" {
		request.Limit, err = strconv.Atoi(limitStr)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("limit must be a valid int"))
			return
		}
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, api.validationErrors(err))
		return
	}

	cat := catalog.Category(request.Category)
	if !cat.Valid() {
		api.BadRequestResponse(w, r,
			fmt.Errorf("unknown category %q, valid categories: %v", request.Category, catalog.Categories()))
		return
	}

	results := api.service.NearestFacilities(
		geo.NewCoordinate(request.Lat, request.Lon), cat, request.Limit)

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": newFacilityResponses(results)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) resolveLocation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	q := r.URL.Query().Get("q")
	if q == "" {
		api.BadRequestResponse(w, r, errors.New("q is required"))
		return
	}

	coord, ok := api.service.ResolveNamedLocation(q)
	if !ok {
		api.NotFoundResponse(w, r, fmt.Errorf("no reference location matches %q", q))
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": resolveLocationResponse{Query: q, Lat: coord.Lat, Lon: coord.Lon}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) loadNetwork(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request loadNetworkRequest

	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil && !errors.Is(err, io.EOF) {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.service.LoadNetwork(r.Context(), request.UseReducedArea); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	api.writeStatus(w, r)
}

func (api *routingAPI) prepareNetwork(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.service.Prepare(); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	api.writeStatus(w, r)
}

func (api *routingAPI) networkStatus(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.writeStatus(w, r)
}

func (api *routingAPI) writeStatus(w http.ResponseWriter, r *http.Request) {
	nodes, edges, prepared := api.service.NetworkStats()

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": networkStatusResponse{Nodes: nodes, Edges: edges, Prepared: prepared}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
