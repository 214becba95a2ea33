// Package geocode fills missing coordinates on event records: a venue-table
// match first, then a cached, rate-limited Nominatim lookup. Failures leave
// coordinates absent and never fail the build.
package geocode

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/metrics"
)

// MaxLookups bounds network lookups per run; venue-table and cache hits are
// free.
const MaxLookups = 80

// streetAddressRe decides whether the location already reads like a street
// address and can be queried as-is.
var streetAddressRe = regexp.MustCompile(`(?i)\b\d{1,5}\s+[nsew]?\.?\s*[a-z]+`)

// Lookuper is the network capability the geocoder uses.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (Coordinates, bool, error)
}

// Geocoder enriches records in place-order, consulting venue table, cache,
// then network.
type Geocoder struct {
	client Lookuper
	cache  *Cache
	logger *zap.Logger
}

// New builds a Geocoder.
func New(client Lookuper, cache *Cache, logger *zap.Logger) *Geocoder {
	return &Geocoder{client: client, cache: cache, logger: logger}
}

// Enrich returns a copy of records with missing coordinates filled where
// possible. Records that already carry coordinates pass through untouched.
func (g *Geocoder) Enrich(ctx context.Context, records []events.Event) []events.Event {
	out := make([]events.Event, len(records))
	copy(out, records)

	lookups := 0
	for i := range out {
		if out[i].Latitude != nil && out[i].Longitude != nil {
			continue
		}
		location := strings.TrimSpace(out[i].Location)
		if location == "" {
			continue
		}

		if coords, ok := venueMatch(location); ok {
			setCoords(&out[i], coords)
			metrics.GeocodeLookup("venue")
			continue
		}

		query := queryFor(location)
		if coords, ok := g.cache.Get(query); ok {
			setCoords(&out[i], coords)
			metrics.GeocodeLookup("cached")
			continue
		}
		if lookups >= MaxLookups || ctx.Err() != nil {
			continue
		}
		lookups++

		coords, found, err := g.client.Lookup(ctx, query)
		if err != nil {
			g.logger.Warn("geocode lookup failed", zap.String("query", query), zap.Error(err))
			metrics.GeocodeLookup("error")
			continue
		}
		if !found {
			metrics.GeocodeLookup("miss")
			continue
		}
		g.cache.Put(query, coords)
		setCoords(&out[i], coords)
		metrics.GeocodeLookup("hit")
	}
	return out
}

// queryFor shapes the search query: street addresses and locations already
// naming the city go as-is, bare venue names get the city suffix so the
// search is not ambiguous nationwide.
func queryFor(location string) string {
	if strings.Contains(strings.ToLower(location), "chicago") || streetAddressRe.MatchString(location) {
		return location
	}
	return location + ", Chicago, IL"
}

func setCoords(e *events.Event, coords Coordinates) {
	lat, lon := coords.Lat, coords.Lon
	e.Latitude = &lat
	e.Longitude = &lon
}
