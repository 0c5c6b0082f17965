package migrate

import (
	"context"
	"database/sql"
	"fmt"

	// goose runs over plain database/sql; lib/pq registers the "postgres" driver.
	_ "github.com/lib/pq"
)

// Open returns a database/sql handle for migrations. Statement failures surface
// as *pq.Error.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return sqlDB, nil
}
