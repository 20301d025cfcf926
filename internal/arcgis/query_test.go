package arcgis

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://services2.arcgis.com/abc/ArcGIS/rest/services/Zones/FeatureServer/0/query"

func TestNewQuery_Defaults(t *testing.T) {
	q, err := NewQuery(testEndpoint, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, q.PageSize())
}

func TestNewQuery_RelativeEndpoint(t *testing.T) {
	_, err := NewQuery("/FeatureServer/0/query", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an absolute URL")
}

func TestNewQuery_InvalidEndpoint(t *testing.T) {
	_, err := NewQuery("http://[::1", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arcgis: parse endpoint")
}

func TestQueryValues_FirstPageOmitsOffset(t *testing.T) {
	q, err := NewQuery(testEndpoint, 100)
	require.NoError(t, err)

	v := q.Values(0)
	_, ok := v["resultOffset"]
	assert.False(t, ok)
	assert.Equal(t, "100", v.Get("resultRecordCount"))
}

func TestQueryValues_FixedParameters(t *testing.T) {
	q, err := NewQuery(testEndpoint, 100)
	require.NoError(t, err)

	v := q.Values(0)
	assert.Equal(t, "1=1", v.Get("where"))
	assert.Equal(t, "esriGeometryEnvelope", v.Get("geometryType"))
	assert.Equal(t, "esriSpatialRelIntersects", v.Get("spatialRel"))
	assert.Equal(t, "*", v.Get("outFields"))
	assert.Equal(t, "true", v.Get("returnGeometry"))
	assert.Equal(t, "4326", v.Get("outSR"))
	assert.Equal(t, "false", v.Get("returnZ"))
	assert.Equal(t, "true", v.Get("returnExceededLimitFeatures"))
	assert.Equal(t, "standard", v.Get("sqlFormat"))
	assert.Equal(t, "geojson", v.Get("f"))
	assert.Len(t, v, len(fixedParams)+1)
}

func TestQueryURL_WithOffset(t *testing.T) {
	q, err := NewQuery(testEndpoint, 100)
	require.NoError(t, err)

	raw := q.URL(300)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "services2.arcgis.com", u.Host)
	assert.Equal(t, "/abc/ArcGIS/rest/services/Zones/FeatureServer/0/query", u.Path)
	assert.Equal(t, "300", u.Query().Get("resultOffset"))
	assert.Equal(t, "geojson", u.Query().Get("f"))
}

func TestQueryURL_DoesNotMutateBase(t *testing.T) {
	q, err := NewQuery(testEndpoint, 100)
	require.NoError(t, err)

	first := q.URL(100)
	second := q.URL(0)
	assert.Contains(t, first, "resultOffset=100")
	assert.NotContains(t, second, "resultOffset")
}
