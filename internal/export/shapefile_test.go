package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/pud-zones/internal/pud"
)

func TestWrite_Shapefile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pud_zones.shp")
	require.NoError(t, Write(path, Shapefile, testZones()))

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		_, err := os.Stat(filepath.Join(dir, "pud_zones"+ext))
		assert.NoError(t, err, ext)
	}

	r, err := shp.Open(path)
	require.NoError(t, err)
	defer r.Close()

	var ids, cases []string
	var partCounts []int32
	for r.Next() {
		n, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		require.True(t, ok)
		partCounts = append(partCounts, poly.NumParts)
		ids = append(ids, strings.TrimSpace(r.ReadAttribute(n, 0)))
		cases = append(cases, strings.TrimSpace(r.ReadAttribute(n, 1)))
	}

	assert.Equal(t, []string{"17", "18", "19"}, ids)
	assert.Equal(t, []string{"2019-0123", "2020-0007", "2021-0042"}, cases)
	assert.Equal(t, []int32{1, 3, 1}, partCounts)
}

func TestToShapePolygon_RingOrientation(t *testing.T) {
	// Counter-clockwise exterior with a clockwise hole, as GeoJSON emits.
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{1, 1}, {1, 2}, {2, 2}, {2, 1}, {1, 1}},
	})

	sp, err := toShapePolygon(p)
	require.NoError(t, err)
	require.Equal(t, int32(2), sp.NumParts)

	// Exterior reversed to clockwise: second point is (0,4).
	assert.Equal(t, shp.Point{X: 0, Y: 4}, sp.Points[1])
	// Hole reversed to counter-clockwise: second point is (2,1).
	assert.Equal(t, shp.Point{X: 2, Y: 1}, sp.Points[6])
}

func TestToShapePolygon_DegenerateRing(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{0, 0}, {1, 1}, {0, 0}}})
	_, err := toShapePolygon(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 4")
}

func TestToShapePolygon_Unsupported(t *testing.T) {
	_, err := toShapePolygon(geom.NewPointFlat(geom.XY, []float64{1, 2}))
	require.Error(t, err)
	assert.ErrorIs(t, err, pud.ErrUnsupportedGeometry)
}

func TestWrite_ShapefileBadGeometryLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	zones := testZones()
	zones[2].Geometry = geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{0, 0}, {1, 1}, {0, 0}}})

	err := Write(filepath.Join(dir, "pud_zones.shp"), Shapefile, zones)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zone 19")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	// "é" is two bytes; a cut inside it backs off to the rune start.
	assert.Equal(t, "a", truncate("aé", 2))
}
