package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// JSONLD extracts events from embedded application/ld+json blocks. Only
// nodes whose type tag includes "Event" are accepted; malformed blocks are
// skipped, never fatal.
type JSONLD struct{}

// Name implements Extractor.
func (JSONLD) Name() string { return "jsonld" }

// Extract implements Extractor.
func (JSONLD) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		for _, node := range graphNodes(payload) {
			m, ok := node.(map[string]any)
			if !ok || !typeIncludesEvent(m) {
				continue
			}
			out = append(out, eventNodeCandidate(m, pageURL))
		}
	})
	return out
}

// graphNodes flattens a JSON-LD payload: a top-level @graph, a bare array,
// or a single node all become a node list.
func graphNodes(payload any) []any {
	if m, ok := payload.(map[string]any); ok {
		if graph, ok := m["@graph"]; ok {
			return anySlice(graph)
		}
	}
	return anySlice(payload)
}

func anySlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{v}
	}
}

func typeIncludesEvent(node map[string]any) bool {
	typeTag := node["@type"]
	if typeTag == nil {
		typeTag = node["type"]
	}
	for _, t := range anySlice(typeTag) {
		if s, ok := t.(string); ok && s == "Event" {
			return true
		}
	}
	return false
}

func eventNodeCandidate(node map[string]any, pageURL string) events.RawCandidate {
	eventURL := stringField(node, "url")
	if eventURL == "" {
		eventURL = pageURL
	}
	return events.RawCandidate{
		Title:       stringField(node, "name"),
		Description: stringField(node, "description"),
		DateText:    stringField(node, "startDate"),
		TimeText:    stringField(node, "startTime"),
		Location:    locationField(node["location"]),
		EventURL:    eventURL,
		Category:    categoryField(node),
		Price:       priceField(node["offers"]),
		SourceURL:   pageURL,
	}
}

func stringField(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%g", v), ".0")
	default:
		return ""
	}
}

// locationField accepts a bare string, a Place node with a name, or a Place
// node with a postal address.
func locationField(v any) string {
	switch loc := v.(type) {
	case string:
		return loc
	case map[string]any:
		if name := stringField(loc, "name"); name != "" {
			return name
		}
		if addr, ok := loc["address"].(map[string]any); ok {
			return stringField(addr, "streetAddress")
		}
	}
	return ""
}

func categoryField(node map[string]any) string {
	var parts []string
	for _, key := range []string{"eventAttendanceMode", "eventStatus"} {
		for _, v := range anySlice(node[key]) {
			if s, ok := v.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, ", ")
}

func priceField(v any) string {
	offers, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	switch price := offers["price"].(type) {
	case string:
		return price
	case float64:
		return fmt.Sprintf("%g", price)
	}
	return ""
}
