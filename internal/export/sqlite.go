package export

import (
	"context"
	"database/sql"
	"os"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pud-zones/internal/pud"
)

const sqliteSchema = `
DROP TABLE IF EXISTS pud_zones;
CREATE TABLE pud_zones (
	id           INTEGER PRIMARY KEY,
	geometry     TEXT NOT NULL,
	case_num     TEXT NOT NULL,
	cond         TEXT,
	ordinance    TEXT,
	shape_area   REAL NOT NULL,
	shape_length REAL NOT NULL
);
`

const sqliteInsert = `INSERT INTO pud_zones (id, geometry, case_num, cond, ordinance, shape_area, shape_length)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// writeSQLite replaces the pud_zones table in the database at path.
// Absent text is stored as NULL, geometry as WKT.
func writeSQLite(path string, zones []pud.Zone) error {
	ctx := context.Background()

	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "export: sqlite: open")
	}

	err = insertZones(ctx, db, zones)
	if closeErr := db.Close(); err == nil && closeErr != nil {
		err = eris.Wrap(closeErr, "export: sqlite: close")
	}
	if err != nil && created {
		_ = os.Remove(path)
	}
	return err
}

func insertZones(ctx context.Context, db *sql.DB, zones []pud.Zone) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "export: sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "export: sqlite: create table")
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return eris.Wrap(err, "export: sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i := range zones {
		z := &zones[i]
		g, err := z.WKT()
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, z.ID, g, z.CaseNum, z.Cond, z.Ordinance, z.ShapeArea, z.ShapeLength); err != nil {
			return eris.Wrapf(err, "export: sqlite: insert zone %d", z.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "export: sqlite: commit")
	}
	return nil
}
