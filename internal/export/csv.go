package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pud-zones/internal/pud"
)

// WriteCSV writes a header row followed by one row per zone, in order.
// The header comes from the first record's fields.
func WriteCSV(w io.Writer, zones []pud.Zone) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	enc := csvutil.NewEncoder(cw)

	for i := range zones {
		rec, err := NewRecord(&zones[i])
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return eris.Wrapf(err, "export: csv: encode zone %d", zones[i].ID)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: csv: flush")
	}
	return nil
}
