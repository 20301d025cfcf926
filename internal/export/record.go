package export

import (
	"strconv"
	"strings"

	"github.com/sells-group/pud-zones/internal/pud"
)

// Record is the flat, text-ready form of a zone. Field order and csv tags
// follow pud.Columns.
type Record struct {
	ID          int64   `csv:"id"`
	Geometry    string  `csv:"geometry"`
	CaseNum     string  `csv:"case_num"`
	Cond        *string `csv:"cond"`
	Ordinance   *string `csv:"ordinance"`
	ShapeArea   string  `csv:"shape_area"`
	ShapeLength string  `csv:"shape_length"`
}

// NewRecord flattens z, rendering its geometry as WKT.
func NewRecord(z *pud.Zone) (Record, error) {
	g, err := z.WKT()
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:          z.ID,
		Geometry:    g,
		CaseNum:     z.CaseNum,
		Cond:        z.Cond,
		Ordinance:   z.Ordinance,
		ShapeArea:   formatFloat(z.ShapeArea),
		ShapeLength: formatFloat(z.ShapeLength),
	}, nil
}

// Values returns the record as strings in pud.Columns order. Absent text
// is "".
func (r Record) Values() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Geometry,
		r.CaseNum,
		pud.Text(r.Cond),
		pud.Text(r.Ordinance),
		r.ShapeArea,
		r.ShapeLength,
	}
}

// formatFloat renders the shortest representation that round-trips, in
// the form Python's float repr uses: integral values keep a ".0", and
// exponents below -4 or from 16 up switch to e-notation ("1e-05",
// "1e+21").
func formatFloat(v float64) string {
	e := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(e, 'e')
	if i < 0 {
		return e // NaN or Inf
	}
	exp, err := strconv.Atoi(e[i+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
