package pud

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
)

func rawGeometry(typ, coords string) *geojson.Geometry {
	raw := json.RawMessage(coords)
	return &geojson.Geometry{Type: typ, Coordinates: &raw}
}

func TestBuildGeometry_PolygonFirstRingOnly(t *testing.T) {
	g, err := buildGeometry(rawGeometry("Polygon",
		`[[[0,0],[2,0],[2,2],[0,0]],[[0.5,0.5],[1,0.5],[1,1],[0.5,0.5]]]`))
	require.NoError(t, err)

	z := Zone{ID: 1, Geometry: g}
	s, err := z.WKT()
	require.NoError(t, err)
	assert.Equal(t, "POLYGON ((0 0, 2 0, 2 2, 0 0))", s)
}

func TestBuildGeometry_MultiPolygonAllRings(t *testing.T) {
	g, err := buildGeometry(rawGeometry("MultiPolygon",
		`[[[[0,0],[2,0],[2,2],[0,0]],[[0.5,0.5],[1,0.5],[1,1],[0.5,0.5]]],[[[5,5],[6,5],[6,6],[5,5]]]]`))
	require.NoError(t, err)

	z := Zone{ID: 1, Geometry: g}
	s, err := z.WKT()
	require.NoError(t, err)
	assert.Equal(t,
		"MULTIPOLYGON (((0 0, 2 0, 2 2, 0 0), (0.5 0.5, 1 0.5, 1 1, 0.5 0.5)), ((5 5, 6 5, 6 6, 5 5)))", s)
}

func TestBuildGeometry_DropsZ(t *testing.T) {
	g, err := buildGeometry(rawGeometry("Polygon", `[[[0,0,7],[1,0,7],[1,1,7],[0,0,7]]]`))
	require.NoError(t, err)

	z := Zone{ID: 1, Geometry: g}
	s, err := z.WKT()
	require.NoError(t, err)
	assert.Equal(t, "POLYGON ((0 0, 1 0, 1 1, 0 0))", s)
}

func TestBuildGeometry_Errors(t *testing.T) {
	tests := []struct {
		name string
		g    *geojson.Geometry
		msg  string
	}{
		{name: "null", g: nil, msg: "null geometry"},
		{name: "no coordinates", g: &geojson.Geometry{Type: "Polygon"}, msg: "no coordinates"},
		{name: "empty polygon", g: rawGeometry("Polygon", `[]`), msg: "polygon has no rings"},
		{name: "empty multipolygon", g: rawGeometry("MultiPolygon", `[]`), msg: "multipolygon has no polygons"},
		{name: "short position", g: rawGeometry("Polygon", `[[[0],[1,1],[0,0]]]`), msg: "position 0 has 1 ordinates"},
		{name: "bad nesting", g: rawGeometry("Polygon", `[[0,0],[1,1]]`), msg: "decode polygon coordinates"},
		{name: "point", g: rawGeometry("Point", `[0,0]`), msg: `geometry type "Point"`},
		{name: "two positions", g: rawGeometry("Polygon", `[[[0,0],[1,1]]]`), msg: "ring has 3 positions"},
		{name: "closed triangle too short", g: rawGeometry("Polygon", `[[[0,0],[1,1],[0,0]]]`), msg: "ring has 3 positions"},
		{name: "empty ring", g: rawGeometry("Polygon", `[[]]`), msg: "ring has 0 positions"},
		{name: "short multipolygon ring", g: rawGeometry("MultiPolygon", `[[[[0,0],[1,0],[1,1],[0,0]],[[2,2],[3,3]]]]`), msg: "ring has 3 positions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildGeometry(tt.g)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuildGeometry_InvalidRingSentinel(t *testing.T) {
	_, err := buildGeometry(rawGeometry("Polygon", `[[[0,0],[1,1]]]`))
	assert.ErrorIs(t, err, ErrInvalidRing)
}

func TestBuildGeometry_ClosesOpenRing(t *testing.T) {
	g, err := buildGeometry(rawGeometry("Polygon", `[[[0,0],[1,0],[1,1]]]`))
	require.NoError(t, err)

	p, ok := g.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 4, p.LinearRing(0).NumCoords())

	s, err := (&Zone{ID: 1, Geometry: g}).WKT()
	require.NoError(t, err)
	assert.Equal(t, "POLYGON ((0 0, 1 0, 1 1, 0 0))", s)
}

func TestBuildGeometry_ClosesOpenMultiPolygonRings(t *testing.T) {
	g, err := buildGeometry(rawGeometry("MultiPolygon", `[[[[0,0],[2,0],[2,2]],[[0.5,0.5],[1,0.5],[1,1]]]]`))
	require.NoError(t, err)

	s, err := (&Zone{ID: 1, Geometry: g}).WKT()
	require.NoError(t, err)
	assert.Equal(t, "MULTIPOLYGON (((0 0, 2 0, 2 2, 0 0), (0.5 0.5, 1 0.5, 1 1, 0.5 0.5)))", s)
}

func TestZoneWKT_NoGeometry(t *testing.T) {
	z := Zone{ID: 5}
	_, err := z.WKT()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zone 5 has no geometry")
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "x", Text(ptr("x")))
}

func TestZoneEWKB(t *testing.T) {
	g, err := buildGeometry(rawGeometry("MultiPolygon", `[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]`))
	require.NoError(t, err)

	data, err := (&Zone{ID: 9, Geometry: g}).EWKB()
	require.NoError(t, err)

	back, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, SRID, back.SRID())
	mp, ok := back.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestZoneEWKB_Errors(t *testing.T) {
	_, err := (&Zone{ID: 3}).EWKB()
	assert.Error(t, err)

	_, err = (&Zone{ID: 4, Geometry: geom.NewPointFlat(geom.XY, []float64{1, 2})}).EWKB()
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
}
