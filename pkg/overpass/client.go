package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emergia-gye/emergia/pkg/geo"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "http://overpass-api.de/api/interpreter"
	defaultTimeout  = 180 * time.Second
	userAgent       = "emergia-gye/1.0"
)

// highway classes accepted for routing.
var highwayFilter = strings.Join([]string{
	"motorway", "trunk", "primary", "secondary", "tertiary",
	"residential", "unclassified", "service", "living_street",
	"motorway_link", "trunk_link", "primary_link", "secondary_link", "tertiary_link",
}, "|")

type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func buildQuery(bbox geo.BoundingBox) string {
	return fmt.Sprintf(`[out:json][timeout:120];
(
  way["highway"~"^(%s)$"](%s);
  way["highway"="living_street"](%s);
);
out tags geom;
`, highwayFilter, bbox.String(), bbox.String())
}

// Fetch posts the road network query and decodes the response. Callers that
// must not fail use FetchRoadNetwork instead.
func (c *Client) Fetch(ctx context.Context, bbox geo.BoundingBox) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(buildQuery(bbox)))
	if err != nil {
		return nil, errors.Wrap(err, "overpass: build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "overpass: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("overpass: unexpected status %d", resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "overpass: decode response")
	}
	return &doc, nil
}

// FetchRoadNetwork downloads the road network for bbox, substituting the
// built-in fallback document on any transport or status failure. Provider
// unavailability is recovered locally and never surfaces as an error.
func (c *Client) FetchRoadNetwork(ctx context.Context, bbox geo.BoundingBox) *Document {
	c.log.Info("downloading road network from Overpass",
		zap.String("bbox", bbox.String()))

	doc, err := c.Fetch(ctx, bbox)
	if err != nil {
		c.log.Warn("road network download failed, using fallback network", zap.Error(err))
		return FallbackDocument()
	}

	c.log.Info("road network downloaded", zap.Int("elements", len(doc.Elements)))
	return doc
}
