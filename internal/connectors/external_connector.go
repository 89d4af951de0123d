package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// ExternalDBConnector reads master data out of an external ERP SQL database.
// Only postgresql and mysql are supported.
type ExternalDBConnector struct {
	driver string
	dsn    string
	db     *sql.DB
}

func NewExternalDBConnector(driver, dsn string) *ExternalDBConnector {
	return &ExternalDBConnector{
		driver: driver,
		dsn:    dsn,
	}
}

func (c *ExternalDBConnector) Connect(ctx context.Context) error {
	if c.dsn == "" {
		return fmt.Errorf("external database DSN is not configured")
	}

	driver := c.driver
	if driver == "postgresql" {
		driver = "postgres"
	}

	db, err := sql.Open(driver, c.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	c.db = db
	return nil
}

func (c *ExternalDBConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *ExternalDBConnector) TestConnection(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return c.db.PingContext(ctx)
}

// QueryTable fetches every row of a table as generic maps. The ERP schema is
// not under our control, so mapping to domain fields happens at the caller.
func (c *ExternalDBConnector) QueryTable(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	return rowsToMaps(rows)
}

func rowsToMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
