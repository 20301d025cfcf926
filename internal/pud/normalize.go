package pud

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pud-zones/internal/arcgis"
)

// Source property keys.
const (
	propCaseNum     = "CASE_NUM"
	propCond        = "COND"
	propOrdinance   = "ORDINANCE"
	propShapeArea   = "Shape__Area"
	propShapeLength = "Shape__Length"
)

// blankText is how the source layer encodes an empty text attribute.
const blankText = " "

// ErrMissingProperty is returned when a feature lacks a required key.
var ErrMissingProperty = eris.New("pud: missing property")

// Normalize maps one raw feature to a Zone.
func Normalize(f arcgis.Feature) (Zone, error) {
	if f.ID == nil {
		return Zone{}, eris.Wrap(ErrMissingProperty, "pud: feature has no id")
	}
	z := Zone{ID: *f.ID}

	g, err := buildGeometry(f.Geometry)
	if err != nil {
		return Zone{}, eris.Wrapf(err, "pud: feature %d", z.ID)
	}
	z.Geometry = g

	caseNum, err := optionalText(f, propCaseNum)
	if err != nil {
		return Zone{}, err
	}
	if caseNum != nil {
		z.CaseNum = *caseNum
	}

	if z.Cond, err = optionalText(f, propCond); err != nil {
		return Zone{}, err
	}
	if z.Ordinance, err = optionalText(f, propOrdinance); err != nil {
		return Zone{}, err
	}

	if z.ShapeArea, err = number(f, propShapeArea); err != nil {
		return Zone{}, err
	}
	if z.ShapeLength, err = number(f, propShapeLength); err != nil {
		return Zone{}, err
	}

	return z, nil
}

// property returns the raw value of a required key.
func property(f arcgis.Feature, key string) (json.RawMessage, error) {
	raw, ok := f.Properties[key]
	if !ok {
		return nil, eris.Wrapf(ErrMissingProperty, "pud: feature %d: %s", *f.ID, key)
	}
	return raw, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// optionalText decodes a text attribute. A null or single-space value is
// absent; any other string, including "", is kept as is. A JSON number is
// accepted as its literal text.
func optionalText(f arcgis.Feature, key string) (*string, error) {
	raw, err := property(f, key)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Numeric codes are kept as their literal JSON text.
		var n json.Number
		if numErr := json.Unmarshal(raw, &n); numErr != nil {
			return nil, eris.Wrapf(err, "pud: feature %d: %s is not text", *f.ID, key)
		}
		s = n.String()
	}
	if s == blankText {
		return nil, nil
	}
	return &s, nil
}

// number decodes a required numeric attribute.
func number(f arcgis.Feature, key string) (float64, error) {
	raw, err := property(f, key)
	if err != nil {
		return 0, err
	}
	if isNull(raw) {
		return 0, eris.Errorf("pud: feature %d: %s is null", *f.ID, key)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, eris.Wrapf(err, "pud: feature %d: %s is not a number", *f.ID, key)
	}
	return v, nil
}
