package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pud-zones/internal/pud"
)

// SheetName is the worksheet written by the XLSX exporter.
const SheetName = "pud_zones"

func writeXLSX(path string, zones []pud.Zone) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range pud.Columns {
		header.AddCell().SetString(col)
	}

	for i := range zones {
		z := &zones[i]
		rec, err := NewRecord(z)
		if err != nil {
			return err
		}

		// id and the two measures stay numeric; the text columns come
		// from the record.
		vals := rec.Values()
		row := sheet.AddRow()
		row.AddCell().SetInt64(rec.ID)
		for _, v := range vals[1:5] {
			row.AddCell().SetString(v)
		}
		row.AddCell().SetFloat(z.ShapeArea)
		row.AddCell().SetFloat(z.ShapeLength)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: xlsx: save %s", path)
	}
	return nil
}
