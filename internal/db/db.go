package db

import (
	"database/sql"
	"fmt"
)

func Connect(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

// EnsureSchema creates the tasks table and indexes on first run. Only the
// primary-key column differs between the supported drivers.
func EnsureSchema(db *sql.DB, driverName string) error {
	var idColumn string
	switch driverName {
	case "sqlite3":
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	case "postgres":
		idColumn = "id BIGSERIAL PRIMARY KEY"
	default:
		return fmt.Errorf("unsupported driver: %s", driverName)
	}

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS tasks (
  %s,
  title TEXT NOT NULL,
  source TEXT,
  tags TEXT NOT NULL DEFAULT '',
  estimate_pomos INTEGER NOT NULL DEFAULT 1,
  actual_pomos INTEGER NOT NULL DEFAULT 0,
  due_date DATE NOT NULL,
  status TEXT NOT NULL DEFAULT 'scheduled',
  created_at TIMESTAMP NOT NULL,
  completed_at DATE
)`, idColumn)
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_tasks_due_status ON tasks(due_date, status)`); err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}
