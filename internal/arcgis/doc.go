// Package arcgis queries an ArcGIS FeatureServer layer for GeoJSON features,
// paging through the result set with resultOffset until a short or empty page.
package arcgis
