package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/username/tradejournal/src/logger"
)

var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS import_jobs (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	file_name TEXT,
	format TEXT,
	status TEXT NOT NULL,
	rows_parsed INTEGER DEFAULT 0,
	rows_failed INTEGER DEFAULT 0,
	rows_committed INTEGER DEFAULT 0,
	rows_duplicate INTEGER DEFAULT 0,
	error TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS imported_trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id TEXT NOT NULL,
	import_id TEXT NOT NULL,
	format TEXT NOT NULL,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	stop_loss REAL,
	take_profit REAL,
	position_size REAL NOT NULL,
	outcome TEXT NOT NULL,
	pnl REAL NOT NULL,
	trade_date TEXT NOT NULL,
	entry_time TEXT,
	exit_time TEXT,
	ticket TEXT,
	source_row INTEGER,
	hash_id TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(import_id) REFERENCES import_jobs(id),
	UNIQUE(account_id, hash_id)
);

CREATE INDEX IF NOT EXISTS idx_imported_trades_account_date ON imported_trades(account_id, trade_date);
`

// addedColumns are columns introduced after the first schema; older databases get them via ALTER TABLE.
var addedColumns = []struct {
	table, name, definition string
}{
	{"imported_trades", "timeframe", "TEXT"},
	{"imported_trades", "commission", "REAL"},
	{"imported_trades", "swap", "REAL"},
}

// Open opens a sqlite database and ensures the schema exists.
func Open(databasePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", databasePath, err)
	}
	// sqlite serializes writers; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	return db, nil
}

// InitDB opens the application database into DB.
func InitDB(databasePath string) error {
	db, err := Open(databasePath)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func migrate(db *sql.DB) error {
	existing := make(map[string]map[string]bool)
	for _, col := range addedColumns {
		if _, ok := existing[col.table]; !ok {
			cols, err := tableColumns(db, col.table)
			if err != nil {
				return err
			}
			existing[col.table] = cols
		}
		if existing[col.table][col.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.table, col.name, col.definition)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", col.table, col.name, err)
		}
		logger.L.Info("Added column", "table", col.table, "column", col.name)
		existing[col.table][col.name] = true
	}
	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table schema for %s: %w", table, err)
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, notnull, pk int
		var name, dataType string
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info for %s: %w", table, err)
		}
		columnExists[name] = true
	}
	return columnExists, rows.Err()
}
