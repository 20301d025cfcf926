// Package pud normalizes ArcGIS features into Planned Unit Development zone
// records.
package pud

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// SRID is the spatial reference of every zone geometry (outSR=4326).
const SRID = 4326

// Columns is the field order of a Zone in every tabular output.
var Columns = []string{
	"id",
	"geometry",
	"case_num",
	"cond",
	"ordinance",
	"shape_area",
	"shape_length",
}

// Zone is one normalized PUD zone. Cond and Ordinance are nil when the
// source left them blank.
type Zone struct {
	ID          int64
	Geometry    geom.T // *geom.Polygon or *geom.MultiPolygon
	CaseNum     string
	Cond        *string
	Ordinance   *string
	ShapeArea   float64
	ShapeLength float64
}

// WKT returns the geometry as well-known text.
func (z *Zone) WKT() (string, error) {
	if z.Geometry == nil {
		return "", eris.Errorf("pud: zone %d has no geometry", z.ID)
	}
	s, err := wkt.Marshal(z.Geometry)
	if err != nil {
		return "", eris.Wrapf(err, "pud: encode zone %d geometry", z.ID)
	}
	return s, nil
}

// EWKB returns the geometry as little-endian extended WKB carrying SRID
// 4326, the form PostGIS accepts over COPY.
func (z *Zone) EWKB() ([]byte, error) {
	if z.Geometry == nil {
		return nil, eris.Errorf("pud: zone %d has no geometry", z.ID)
	}
	var g geom.T
	switch t := z.Geometry.(type) {
	case *geom.Polygon:
		g = geom.NewPolygonFlat(t.Layout(), t.FlatCoords(), t.Ends()).SetSRID(SRID)
	case *geom.MultiPolygon:
		g = geom.NewMultiPolygonFlat(t.Layout(), t.FlatCoords(), t.Endss()).SetSRID(SRID)
	default:
		return nil, eris.Wrapf(ErrUnsupportedGeometry, "pud: zone %d: %T", z.ID, z.Geometry)
	}
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrapf(err, "pud: encode zone %d EWKB", z.ID)
	}
	return data, nil
}

// Text returns the value of an optional text field, or "" when absent.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
