package featuresource_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymap/internal/adapters/out/featuresource"
	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
)

var bounds = geo.BoundingBox{MinLat: 39.5, MaxLat: 40.5, MinLng: -74.5, MaxLng: -73.5}

const collection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "coast-1", "properties": {"name": "Jersey Shore", "type": "coastline"},
     "geometry": {"type": "LineString", "coordinates": [[-74.4, 39.6], [-74.0, 40.1]]}},
    {"type": "Feature", "id": 17, "properties": {"name": "Round Lake", "type": "lake"},
     "geometry": {"type": "Polygon", "coordinates": [[[-74.1, 40.0], [-74.0, 40.0], [-74.0, 40.1], [-74.1, 40.0]]]}},
    {"type": "Feature", "properties": {"name": "County line", "type": "administrative"},
     "geometry": {"type": "MultiLineString", "coordinates": [[[-74.3, 39.9], [-74.2, 40.2]], [[-73.9, 39.9], [-73.8, 40.0]]]}},
    {"type": "Feature", "properties": {"name": "Lighthouse", "type": "poi"},
     "geometry": {"type": "Point", "coordinates": [-74.0, 40.0]}}
  ]
}`

func newClient(t *testing.T, url, key string) *featuresource.Client {
	t.Helper()
	c, err := featuresource.New(url, key,
		featuresource.WithRetryInterval(time.Millisecond),
		featuresource.WithMaxRetries(2),
	)
	require.NoError(t, err)
	return c
}

func TestClient_Features_ParsesCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/features", r.URL.Path)
		assert.Equal(t, "-74.500000,39.500000,-73.500000,40.500000", r.URL.Query().Get("bbox"))
		assert.Equal(t, "water,administrative", r.URL.Query().Get("categories"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(collection))
	}))
	defer srv.Close()

	features, err := newClient(t, srv.URL, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, geo.Feature{
		ID: "coast-1", Name: "Jersey Shore", Type: geo.FeatureCoastline,
		Parts: [][]kernel.GeoPoint{{{Lat: 39.6, Lng: -74.4}, {Lat: 40.1, Lng: -74.0}}},
	}, features[0])
	assert.Equal(t, "17", features[1].ID)
	assert.Equal(t, geo.FeatureLake, features[1].Type)
	assert.Len(t, features[1].Parts[0], 4)
	assert.Equal(t, geo.FeatureBoundary, features[2].Type)
	assert.Len(t, features[2].Parts, 2)
}

func TestClient_Features_MissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	c := newClient(t, srv.URL, "  ")

	require.Error(t, c.CheckCredential())
	_, err := c.Features(t.Context(), bounds, geo.DefaultCategories())

	reason, ok := geo.FeatureSourceReason(err)
	require.True(t, ok)
	assert.Equal(t, geo.ReasonMissingCredential, reason)
	assert.Zero(t, calls.Load(), "no request may be sent without a credential")
}

func TestClient_Features_RejectedCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "expired").Features(t.Context(), bounds, geo.DefaultCategories())

	reason, _ := geo.FeatureSourceReason(err)
	assert.Equal(t, geo.ReasonMissingCredential, reason)
	assert.Equal(t, int32(1), calls.Load(), "credential errors are not retried")
}

func TestClient_Features_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(collection))
	}))
	defer srv.Close()

	features, err := newClient(t, srv.URL, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	require.NoError(t, err)
	assert.Len(t, features, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Features_RetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	require.ErrorIs(t, err, geo.ErrFeatureSourceUnavailable)
	reason, _ := geo.FeatureSourceReason(err)
	assert.Equal(t, geo.ReasonNetwork, reason)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Features_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	reason, ok := geo.FeatureSourceReason(err)
	require.True(t, ok)
	assert.Equal(t, geo.ReasonNetwork, reason)
}

func TestClient_Features_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	reason, _ := geo.FeatureSourceReason(err)
	assert.Equal(t, geo.ReasonNoFeatures, reason)
}

func TestClient_Features_OutOfRangeCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
		  {"properties":{"type":"river"},"geometry":{"type":"LineString","coordinates":[[-74,40],[-74,95]]}}]}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "secret").Features(t.Context(), bounds, geo.DefaultCategories())

	require.ErrorIs(t, err, geo.ErrMalformedGeometryInput)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := featuresource.New(" ", "key")
	require.Error(t, err)
}
