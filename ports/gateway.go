package ports

import (
	"context"
	"time"

	"shoplens/domain/rowset"
)

// ProcedureGateway invokes a named server-side stored procedure with
// positional parameters and returns its first result set. Implementations
// must treat failure softly: log, return an empty set and the error, and let
// the caller degrade the affected section rather than the page.
type ProcedureGateway interface {
	Invoke(ctx context.Context, name string, params ...any) (rowset.ResultSet, error)
}

// Catalog answers the two direct lookups the dashboards need outside any
// stored procedure: the observed order-date bounds that clamp the session
// date filter, and the product category list that parameterizes the
// marketing sections.
type Catalog interface {
	ObservedDateRange(ctx context.Context) (min, max time.Time, err error)
	Categories(ctx context.Context) ([]string, error)
}
