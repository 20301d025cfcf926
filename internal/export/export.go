// Package export writes normalized PUD zones to tabular and spatial files.
package export

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/pud"
)

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	CSV       Format = "csv"
	XLSX      Format = "xlsx"
	GeoJSON   Format = "geojson"
	Shapefile Format = "shp"
	SQLite    Format = "sqlite"
)

// Formats lists every supported format in display order.
var Formats = []Format{CSV, XLSX, GeoJSON, Shapefile, SQLite}

var (
	// ErrNoZones is returned when there is nothing to write. No file is
	// created in that case.
	ErrNoZones = eris.New("export: no zones to write")

	// ErrUnknownFormat is returned by ParseFormat for an unsupported name.
	ErrUnknownFormat = eris.New("export: unknown format")
)

// ParseFormat converts a format name (case-insensitive) into a Format.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Formats {
		if f == name {
			return f, nil
		}
	}
	return "", eris.Wrapf(ErrUnknownFormat, "export: %q (valid: csv, xlsx, geojson, shp, sqlite)", s)
}

// Label returns the upper-case display name, e.g. "CSV".
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// Write encodes zones to path in the given format.
func Write(path string, format Format, zones []pud.Zone) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	var err error
	switch format {
	case CSV:
		err = writeFile(path, func(f *os.File) error { return WriteCSV(f, zones) })
	case XLSX:
		err = writeXLSX(path, zones)
	case GeoJSON:
		err = writeFile(path, func(f *os.File) error { return WriteGeoJSON(f, zones) })
	case Shapefile:
		err = writeShapefile(path, zones)
	case SQLite:
		err = writeSQLite(path, zones)
	default:
		return eris.Wrapf(ErrUnknownFormat, "export: %q", format)
	}
	if err != nil {
		return err
	}

	zap.L().Debug("export: wrote zones",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("zones", len(zones)),
	)
	return nil
}

// writeFile creates path, runs fn and closes the file. The file is removed
// if fn or Close fails.
func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return eris.Wrapf(err, "export: close %s", path)
	}
	return nil
}
