package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/pud"
)

// ErrNoZones is returned by LoadZones for an empty collection.
var ErrNoZones = eris.New("db: no zones to load")

// Table DDL. %[1]s is the quoted schema, %[2]s the quoted schema.table.
const (
	createSchemaSQL = `CREATE SCHEMA IF NOT EXISTS %[1]s`
	createTableSQL  = `CREATE TABLE IF NOT EXISTS %[2]s (
	id           BIGINT PRIMARY KEY,
	geometry     geometry(Geometry, 4326) NOT NULL,
	case_num     TEXT NOT NULL,
	cond         TEXT,
	ordinance    TEXT,
	shape_area   DOUBLE PRECISION NOT NULL,
	shape_length DOUBLE PRECISION NOT NULL
)`
	truncateSQL = `TRUNCATE %[2]s`
)

// ZoneRows converts zones into COPY rows in pud.Columns order, with the
// geometry as EWKB.
func ZoneRows(zones []pud.Zone) ([][]any, error) {
	rows := make([][]any, 0, len(zones))
	for i := range zones {
		z := &zones[i]
		g, err := z.EWKB()
		if err != nil {
			return nil, err
		}
		rows = append(rows, []any{z.ID, g, z.CaseNum, z.Cond, z.Ordinance, z.ShapeArea, z.ShapeLength})
	}
	return rows, nil
}

// LoadZones replaces the contents of schema.table with zones in a single
// transaction, creating the schema and table when missing. It returns the
// number of rows copied.
func LoadZones(ctx context.Context, pool Pool, schema, table string, zones []pud.Zone) (int64, error) {
	if len(zones) == 0 {
		return 0, ErrNoZones
	}

	rows, err := ZoneRows(zones)
	if err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: load zones: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	qSchema := pgx.Identifier{schema}.Sanitize()
	qTable := pgx.Identifier{schema, table}.Sanitize()
	for _, stmt := range []string{createSchemaSQL, createTableSQL, truncateSQL} {
		sql := fmt.Sprintf(stmt, qSchema, qTable)
		if _, err := tx.Exec(ctx, sql); err != nil {
			line, _, _ := strings.Cut(sql, "\n")
			return 0, eris.Wrapf(err, "db: load zones: exec %q", line)
		}
	}

	n, err := CopyFromSchema(ctx, tx, schema, table, pud.Columns, rows)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: load zones: commit tx")
	}

	zap.L().Info("db: loaded zones",
		zap.String("table", schema+"."+table),
		zap.Int64("rows", n),
	)
	return n, nil
}
