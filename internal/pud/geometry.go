package pud

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ErrUnsupportedGeometry is returned for a null geometry or a type other
// than Polygon or MultiPolygon.
var ErrUnsupportedGeometry = eris.New("pud: unsupported geometry")

// ErrInvalidRing is returned for a linear ring that cannot enclose an area.
var ErrInvalidRing = eris.New("pud: invalid ring")

// buildGeometry converts a GeoJSON geometry into a go-geom value. A Polygon
// keeps only its first (exterior) ring; a MultiPolygon keeps every ring of
// every member polygon.
func buildGeometry(g *geojson.Geometry) (geom.T, error) {
	if g == nil {
		return nil, eris.Wrap(ErrUnsupportedGeometry, "pud: null geometry")
	}
	if g.Coordinates == nil {
		return nil, eris.Errorf("pud: %s geometry has no coordinates", g.Type)
	}

	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(*g.Coordinates, &rings); err != nil {
			return nil, eris.Wrap(err, "pud: decode polygon coordinates")
		}
		if len(rings) == 0 {
			return nil, eris.New("pud: polygon has no rings")
		}
		shell, err := toRing(rings[0])
		if err != nil {
			return nil, err
		}
		p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{shell})
		if err != nil {
			return nil, eris.Wrap(err, "pud: build polygon")
		}
		return p.SetSRID(SRID), nil

	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(*g.Coordinates, &polys); err != nil {
			return nil, eris.Wrap(err, "pud: decode multipolygon coordinates")
		}
		if len(polys) == 0 {
			return nil, eris.New("pud: multipolygon has no polygons")
		}
		coords := make([][][]geom.Coord, 0, len(polys))
		for _, poly := range polys {
			rings := make([][]geom.Coord, 0, len(poly))
			for _, raw := range poly {
				ring, err := toRing(raw)
				if err != nil {
					return nil, err
				}
				rings = append(rings, ring)
			}
			coords = append(coords, rings)
		}
		mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(coords)
		if err != nil {
			return nil, eris.Wrap(err, "pud: build multipolygon")
		}
		return mp.SetSRID(SRID), nil

	default:
		return nil, eris.Wrapf(ErrUnsupportedGeometry, "pud: geometry type %q", g.Type)
	}
}

// toRing reduces each position to XY, dropping any Z or M ordinates. An
// open ring is closed by repeating its first position. A ring needs at
// least 4 positions once closed.
func toRing(positions [][]float64) ([]geom.Coord, error) {
	ring := make([]geom.Coord, 0, len(positions)+1)
	for i, pos := range positions {
		if len(pos) < 2 {
			return nil, eris.Errorf("pud: position %d has %d ordinates", i, len(pos))
		}
		ring = append(ring, geom.Coord{pos[0], pos[1]})
	}

	if n := len(ring); n > 0 && !ring[0].Equal(geom.XY, ring[n-1]) {
		ring = append(ring, geom.Coord{ring[0][0], ring[0][1]})
	}
	if len(ring) < 4 {
		return nil, eris.Wrapf(ErrInvalidRing, "pud: ring has %d positions, need at least 4", len(ring))
	}
	return ring, nil
}
