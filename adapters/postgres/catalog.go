package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"shoplens/internal"
	"shoplens/ports"
)

// Catalog answers the direct queries the dashboards issue outside any
// stored procedure.
type Catalog struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewCatalog creates a catalog over an open connection pool.
func NewCatalog(db *sqlx.DB) ports.Catalog {
	return &Catalog{db: db, log: internal.DefaultLogger}
}

// ObservedDateRange returns the min and max order dates in the dataset.
// When the query fails or the table is empty it falls back to the trailing
// year ending today, so the date picker always has usable bounds.
func (c *Catalog) ObservedDateRange(ctx context.Context) (time.Time, time.Time, error) {
	var bounds struct {
		MinDate sql.NullTime `db:"min_date"`
		MaxDate sql.NullTime `db:"max_date"`
	}
	err := c.db.GetContext(ctx, &bounds,
		`SELECT MIN("OrderDate") AS min_date, MAX("OrderDate") AS max_date FROM "Order"`)
	if err != nil || !bounds.MinDate.Valid || !bounds.MaxDate.Valid {
		if err != nil {
			c.log.Error("date range query failed: %v", err)
		}
		now := time.Now()
		return now.AddDate(-1, 0, 0), now, err
	}
	return bounds.MinDate.Time, bounds.MaxDate.Time, nil
}

// Categories returns the distinct product categories in display order.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT "Category" FROM "Product" ORDER BY "Category"`)
	if err != nil {
		c.log.Error("category query failed: %v", err)
		return nil, err
	}
	return categories, nil
}
