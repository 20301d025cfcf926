package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/pud-zones/internal/pud"
)

func TestWriteGeoJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, testZones()))

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	require.Len(t, fc.Features, 3)

	first := fc.Features[0]
	assert.Equal(t, "17", first.ID)
	_, ok := first.Geometry.(*geom.Polygon)
	assert.True(t, ok)
	assert.Equal(t, "2019-0123", first.Properties["case_num"])
	assert.Nil(t, first.Properties["cond"])
	assert.Equal(t, "ORD 13456", first.Properties["ordinance"])
	assert.InDelta(t, 104512.625, first.Properties["shape_area"], 1e-9)

	mp, ok := fc.Features[1].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, "", fc.Features[1].Properties["ordinance"])
}

func TestWriteGeoJSON_MissingGeometry(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGeoJSON(&buf, []pud.Zone{{ID: 4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zone 4 has no geometry")
}

func TestWrite_GeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pud_zones.geojson")
	require.NoError(t, Write(path, GeoJSON, testZones()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
}
