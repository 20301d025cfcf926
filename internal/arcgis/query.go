package arcgis

import (
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// DefaultPageSize is the number of features requested per page.
const DefaultPageSize = 100

// fixedParams is the parameter set sent with every query. Only
// resultOffset varies between pages.
var fixedParams = [][2]string{
	{"where", "1=1"},
	{"geometryType", "esriGeometryEnvelope"},
	{"spatialRel", "esriSpatialRelIntersects"},
	{"resultType", "none"},
	{"distance", "0.0"},
	{"units", "esriSRUnit_Meter"},
	{"returnGeodetic", "false"},
	{"outFields", "*"},
	{"returnGeometry", "true"},
	{"returnCentroid", "false"},
	{"returnEnvelope", "false"},
	{"featureEncoding", "esriDefault"},
	{"multipatchOption", "xyFootprint"},
	{"outSR", "4326"},
	{"applyVCSProjection", "false"},
	{"returnIdsOnly", "false"},
	{"returnUniqueIdsOnly", "false"},
	{"returnCountOnly", "false"},
	{"returnExtentOnly", "false"},
	{"returnQueryGeometry", "false"},
	{"returnDistinctValues", "false"},
	{"cacheHint", "false"},
	{"returnZ", "false"},
	{"returnM", "false"},
	{"returnTrueCurves", "false"},
	{"returnExceededLimitFeatures", "true"},
	{"sqlFormat", "standard"},
	{"f", "geojson"},
}

// Query builds FeatureServer query URLs for one layer endpoint.
type Query struct {
	base     *url.URL
	pageSize int
}

// NewQuery parses the layer's /query endpoint. A non-positive pageSize
// falls back to DefaultPageSize.
func NewQuery(endpoint string, pageSize int) (*Query, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, eris.Wrapf(err, "arcgis: parse endpoint %q", endpoint)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, eris.Errorf("arcgis: endpoint %q is not an absolute URL", endpoint)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Query{base: u, pageSize: pageSize}, nil
}

// PageSize returns the number of features requested per page.
func (q *Query) PageSize() int {
	return q.pageSize
}

// Values returns the query parameters for the page starting at offset.
// resultOffset is omitted for the first page.
func (q *Query) Values(offset int) url.Values {
	v := make(url.Values, len(fixedParams)+2)
	for _, kv := range fixedParams {
		v.Set(kv[0], kv[1])
	}
	v.Set("resultRecordCount", strconv.Itoa(q.pageSize))
	if offset > 0 {
		v.Set("resultOffset", strconv.Itoa(offset))
	}
	return v
}

// URL returns the full request URL for the page starting at offset.
func (q *Query) URL(offset int) string {
	u := *q.base
	u.RawQuery = q.Values(offset).Encode()
	return u.String()
}
