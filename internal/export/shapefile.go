package export

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/sells-group/pud-zones/internal/pud"
)

// dBase attribute columns, in write order. Names are limited to 10 bytes.
var shapeFields = []shp.Field{
	shp.NumberField("ID", 18),
	shp.StringField("CASE_NUM", 64),
	shp.StringField("COND", 254),
	shp.StringField("ORDINANCE", 128),
	shp.FloatField("SHAPE_AREA", 24, 6),
	shp.FloatField("SHAPE_LEN", 24, 6),
}

func writeShapefile(path string, zones []pud.Zone) error {
	// Convert everything up front so a bad geometry leaves no files behind.
	shapes := make([]*shp.Polygon, 0, len(zones))
	for i := range zones {
		p, err := toShapePolygon(zones[i].Geometry)
		if err != nil {
			return eris.Wrapf(err, "export: shp: zone %d", zones[i].ID)
		}
		shapes = append(shapes, p)
	}

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: shp: create %s", path)
	}

	if err := writeShapeRecords(w, zones, shapes); err != nil {
		w.Close()
		removeShapefile(path)
		return err
	}

	w.Close()
	return nil
}

func writeShapeRecords(w *shp.Writer, zones []pud.Zone, shapes []*shp.Polygon) error {
	if err := w.SetFields(shapeFields); err != nil {
		return eris.Wrap(err, "export: shp: set fields")
	}

	for i, p := range shapes {
		z := &zones[i]
		row := int(w.Write(p))

		values := []interface{}{
			int(z.ID),
			truncate(z.CaseNum, shapeFields[1].Size),
			truncate(pud.Text(z.Cond), shapeFields[2].Size),
			truncate(pud.Text(z.Ordinance), shapeFields[3].Size),
			z.ShapeArea,
			z.ShapeLength,
		}
		for field, v := range values {
			if err := w.WriteAttribute(row, field, v); err != nil {
				return eris.Wrapf(err, "export: shp: zone %d field %s", z.ID, shapeFields[field].String())
			}
		}
	}

	return nil
}

// removeShapefile deletes the .shp, .shx and .dbf files for path.
func removeShapefile(path string) {
	base := path
	if strings.HasSuffix(strings.ToLower(base), ".shp") {
		base = base[:len(base)-4]
	}
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		_ = os.Remove(base + ext)
	}
}

// toShapePolygon converts a polygon or multi-polygon into a single
// multi-part shapefile polygon. Exterior rings are written clockwise and
// holes counter-clockwise, as the shapefile format requires.
func toShapePolygon(g geom.T) (*shp.Polygon, error) {
	var polys []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polys = []*geom.Polygon{t}
	case *geom.MultiPolygon:
		for i := range t.NumPolygons() {
			polys = append(polys, t.Polygon(i))
		}
	default:
		return nil, eris.Wrapf(pud.ErrUnsupportedGeometry, "export: shp: %T", g)
	}

	var parts [][]shp.Point
	for _, p := range polys {
		for r := range p.NumLinearRings() {
			ring := p.LinearRing(r)
			flat := ring.FlatCoords()
			stride := ring.Stride()
			if ring.NumCoords() < 4 {
				return nil, eris.Errorf("export: shp: ring %d has %d positions, need at least 4", r, ring.NumCoords())
			}

			pts := make([]shp.Point, 0, len(flat)/stride)
			for i := 0; i < len(flat); i += stride {
				pts = append(pts, shp.Point{X: flat[i], Y: flat[i+1]})
			}

			ccw := xy.IsRingCounterClockwise(ring.Layout(), flat)
			if (r == 0 && ccw) || (r > 0 && !ccw) {
				reversePoints(pts)
			}
			parts = append(parts, pts)
		}
	}
	if len(parts) == 0 {
		return nil, eris.New("export: shp: empty geometry")
	}

	poly := shp.Polygon(*shp.NewPolyLine(parts))
	return &poly, nil
}

func reversePoints(pts []shp.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n uint8) string {
	if len(s) <= int(n) {
		return s
	}
	cut := int(n)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
