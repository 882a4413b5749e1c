// Package postgres implements the procedure gateway and catalog lookups
// over PostgreSQL. All analytical aggregation lives in server-side stored
// procedures; this package only invokes them and hands back rows.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"shoplens/domain/rowset"
	"shoplens/internal"
	"shoplens/internal/errors"
	"shoplens/ports"
)

// Procedure names are internal constants, but gate them anyway so a future
// caller can never smuggle SQL through the identifier position.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ProcedureGateway invokes stored procedures as set-returning functions.
type ProcedureGateway struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewProcedureGateway creates a gateway over an open connection pool.
func NewProcedureGateway(db *sqlx.DB) ports.ProcedureGateway {
	return &ProcedureGateway{db: db, log: internal.DefaultLogger}
}

// Invoke calls the named procedure with positional parameters and scans its
// first result set into ordered rows. Any failure logs and returns an empty
// set with the error; the page renders around the hole.
func (g *ProcedureGateway) Invoke(ctx context.Context, name string, params ...any) (rowset.ResultSet, error) {
	if !identPattern.MatchString(name) {
		return rowset.ResultSet{}, errors.InvalidInput(fmt.Sprintf("invalid procedure name %q", name))
	}

	placeholders := make([]string, len(params))
	for i := range params {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(placeholders, ", "))

	rows, err := g.db.QueryxContext(ctx, query, params...)
	if err != nil {
		g.log.Error("procedure %s failed: %v", name, err)
		return rowset.ResultSet{}, errors.Wrapf(err, "procedure %s", name)
	}
	defer rows.Close()

	var out rowset.ResultSet
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			g.log.Error("procedure %s scan failed: %v", name, err)
			return rowset.ResultSet{}, errors.Wrapf(err, "procedure %s scan", name)
		}
		out = append(out, rowset.Row(row))
	}
	if err := rows.Err(); err != nil {
		g.log.Error("procedure %s rows failed: %v", name, err)
		return rowset.ResultSet{}, errors.Wrapf(err, "procedure %s rows", name)
	}
	return out, nil
}
