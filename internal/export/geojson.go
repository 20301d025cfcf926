package export

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/pud-zones/internal/pud"
)

// WriteGeoJSON writes zones as a GeoJSON FeatureCollection. Non-geometry
// columns become feature properties; absent text is null.
func WriteGeoJSON(w io.Writer, zones []pud.Zone) error {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(zones)),
	}

	for i := range zones {
		z := &zones[i]
		if z.Geometry == nil {
			return eris.Errorf("export: geojson: zone %d has no geometry", z.ID)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.FormatInt(z.ID, 10),
			Geometry: z.Geometry,
			Properties: map[string]interface{}{
				"case_num":     z.CaseNum,
				"cond":         z.Cond,
				"ordinance":    z.Ordinance,
				"shape_area":   z.ShapeArea,
				"shape_length": z.ShapeLength,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return eris.Wrap(err, "export: geojson: marshal")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: geojson: write")
	}
	return nil
}
