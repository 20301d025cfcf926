package arcgis

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection is one page of a GeoJSON query response.
type FeatureCollection struct {
	Type       string           `json:"type"`
	Features   []Feature        `json:"features"`
	Properties *CollectionProps `json:"properties,omitempty"`
	Error      *APIError        `json:"error,omitempty"`
}

// CollectionProps carries the ArcGIS paging hint on GeoJSON responses.
type CollectionProps struct {
	ExceededTransferLimit bool `json:"exceededTransferLimit"`
}

// Feature is a single GeoJSON feature as returned by the FeatureServer.
// Geometry coordinates are left raw; interpretation depends on the
// declared geometry type.
type Feature struct {
	ID         *int64                     `json:"id"`
	Geometry   *geojson.Geometry          `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// GeometryType returns the declared geometry type, or "" for a null geometry.
func (f Feature) GeometryType() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.Type
}

// APIError is the error object ArcGIS embeds in an HTTP 200 response.
type APIError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("arcgis: error %d: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("arcgis: error %d: %s", e.Code, e.Message)
}
