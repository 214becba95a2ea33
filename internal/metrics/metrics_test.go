package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	require.NotPanics(t, Init)

	PageFetched("example.test")
	PageFailed("example.test")
	Candidates("jsonld", 3)
	RecordAdmitted("example.test")
	RecordDropped("stale")
	GeocodeLookup("cached")
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	PageFetched("handler.test")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "events_pages_fetched_total")
}
