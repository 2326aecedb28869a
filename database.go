package wire

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/panchr/wire/internal/log"
	"github.com/panchr/wire/sqlstring"
)

// Config represents the configuration for a DB instance.
type Config struct {
	// Path is the database file path. ":memory:" opens a throwaway
	// in-memory database.
	Path string
	// Debug logs every executed statement and its bound values.
	Debug bool
	// LogWriter receives the structured logs. Defaults to os.Stderr.
	LogWriter io.Writer
}

// DB owns a handle to an SQLite database file. It is a facade over the
// driver connection rather than an extension of it; only the
// documented surface is exposed.
type DB struct {
	conn         *sqlx.DB
	logger       log.Logger
	debug        bool
	defaultTable string

	// Row-change counter baseline, see Count and ResetCounter.
	resetBaseline int64

	cursors      map[string]*Cursor
	cursorsMutex sync.Mutex
}

// WriteResult represents the result of a write statement.
type WriteResult struct {
	LastInsertID int64
	RowsAffected int64
}

// New opens the SQLite database at config.Path, creating the file if
// it does not exist.
func New(config Config) (*DB, error) {
	if config.Path == "" {
		return nil, errors.New("database path is required")
	}

	writer := config.LogWriter
	if writer == nil {
		writer = os.Stderr
	}

	conn, err := sqlx.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One connection keeps total_changes() stable and serializes
	// writes the way the engine expects.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	return &DB{
		conn:    conn,
		logger:  log.NewLogger(writer),
		debug:   config.Debug,
		cursors: make(map[string]*Cursor),
	}, nil
}

// Open opens the SQLite database at path with default configuration.
func Open(path string) (*DB, error) {
	return New(Config{Path: path})
}

// Create opens the database at path and seeds it by executing the SQL
// script at sqlFilePath.
func Create(path, sqlFilePath string) (*DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.ExecuteFile(sqlFilePath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close releases every open cursor and closes the underlying handle.
func (db *DB) Close() error {
	db.cursorsMutex.Lock()
	for id, cursor := range db.cursors {
		cursor.invalidate()
		delete(db.cursors, id)
	}
	db.cursorsMutex.Unlock()

	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetDebug enables or disables statement logging.
func (db *DB) SetDebug(enabled bool) {
	db.debug = enabled
}

// ToggleDebug flips statement logging and returns the new value.
func (db *DB) ToggleDebug() bool {
	db.debug = !db.debug
	return db.debug
}

// SetDefaultTable sets the table used when an operation receives an
// empty table name.
func (db *DB) SetDefaultTable(name string) {
	db.defaultTable = name
}

func (db *DB) resolveTable(name string) string {
	if name == "" {
		return db.defaultTable
	}
	return name
}

func (db *DB) logStatement(query string, args []any) {
	if !db.debug {
		return
	}
	db.logger.DebugNs(log.NsDatabase, "execute", log.KV{
		"query": query,
		"args":  fmt.Sprintf("%v", args),
	})
}

// Execute runs a single statement and returns a cursor over its
// result rows. Outside a transaction the engine commits the statement
// before Execute returns; there is no implicit batching. The result
// rows are drained before Execute returns, so the connection is free
// for the next statement no matter how long the cursor is held.
func (db *DB) Execute(query string, args ...any) (*Cursor, error) {
	db.logStatement(query, args)

	rows, err := db.conn.Queryx(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return db.registerCursor(rows)
}

// Exec runs a single write statement and reports its effect.
func (db *DB) Exec(query string, args ...any) (WriteResult, error) {
	db.logStatement(query, args)

	result, err := db.conn.Exec(query, args...)
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to execute write query: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return WriteResult{
		LastInsertID: lastInsertID,
		RowsAffected: rowsAffected,
	}, nil
}

// Script executes a multi-statement SQL script, each statement
// delimited with a semicolon.
func (db *DB) Script(script string) error {
	db.logStatement(script, nil)

	if _, err := db.conn.Exec(script); err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}
	return nil
}

// ExecuteFile executes the SQL script stored at path.
func (db *DB) ExecuteFile(path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script file: %w", err)
	}
	return db.Script(string(script))
}

// Insert inserts one row into the table. An empty table name refers to
// the default table.
func (db *DB) Insert(table string, columns sqlstring.Bindings) (WriteResult, error) {
	query, values := sqlstring.Insert(db.resolveTable(table), columns)
	return db.Exec(query, values...)
}

// Update updates the rows matching clauses, setting the given
// column/value pairs.
func (db *DB) Update(table string, clauses sqlstring.Clauses, set sqlstring.Bindings) (WriteResult, error) {
	query, values := sqlstring.Update(db.resolveTable(table), clauses, set)
	return db.Exec(query, values...)
}

// Select returns a cursor over the rows matching clauses. A nil column
// list projects every column; without predicates every row matches.
func (db *DB) Select(table string, columns []string, clauses sqlstring.Clauses) (*Cursor, error) {
	query, values := sqlstring.Select(db.resolveTable(table), columns, clauses)
	return db.Execute(query, values...)
}

// Delete removes the rows matching clauses. Without predicates nothing
// is deleted.
func (db *DB) Delete(table string, clauses sqlstring.Clauses) (WriteResult, error) {
	query, values := sqlstring.Delete(db.resolveTable(table), clauses)
	return db.Exec(query, values...)
}

// Pragma executes a PRAGMA statement and returns a cursor over its
// results.
func (db *DB) Pragma(cmd string) (*Cursor, error) {
	return db.Execute(sqlstring.Pragma(cmd))
}

// CheckIntegrity runs the engine's integrity check, reporting at most
// maxErrors problems. A nil result means the check passed; otherwise
// the raw messages are returned as data, not as an error.
func (db *DB) CheckIntegrity(maxErrors int) ([]string, error) {
	cursor, err := db.Execute(sqlstring.CheckIntegrity(maxErrors))
	if err != nil {
		return nil, err
	}

	rows, err := cursor.FetchValues(FetchAll)
	if err != nil {
		return nil, err
	}

	messages := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			messages = append(messages, valueString(row[0]))
		}
	}

	if len(messages) == 1 && messages[0] == "ok" {
		return nil, nil
	}
	return messages, nil
}

const (
	tablesQuery         = "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name"
	tablesWithTempQuery = "SELECT name FROM (SELECT * FROM sqlite_master UNION SELECT * FROM sqlite_temp_master) WHERE type = 'table' ORDER BY name"
)

// Tables lists the user tables in the database, optionally including
// temporary tables.
func (db *DB) Tables(includeTemp bool) ([]string, error) {
	query := tablesQuery
	if includeTemp {
		query = tablesWithTempQuery
	}

	var names []string
	if err := db.conn.Select(&names, query); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// TableExists reports whether a table with the given name exists.
func (db *DB) TableExists(name string, includeTemp bool) (bool, error) {
	names, err := db.Tables(includeTemp)
	if err != nil {
		return false, err
	}
	for _, candidate := range names {
		if candidate == name {
			return true, nil
		}
	}
	return false, nil
}

// Table returns a facade scoped to the named table, verifying against
// the live schema (temporary tables included) that it exists.
func (db *DB) Table(name string) (*Table, error) {
	exists, err := db.TableExists(name, true)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SchemaError{Table: name}
	}
	return &Table{db: db, name: name}, nil
}

// CreateTable creates a table and returns its facade.
func (db *DB) CreateTable(name string, temporary bool, columns []sqlstring.ColumnDef) (*Table, error) {
	if _, err := db.Exec(sqlstring.CreateTable(name, temporary, columns)); err != nil {
		return nil, err
	}
	return &Table{db: db, name: name}, nil
}

// DropTable drops the named table.
func (db *DB) DropTable(name string) error {
	_, err := db.Exec(sqlstring.DropTable(name))
	return err
}

// Count returns the number of rows created, modified, or deleted on
// this connection since the last ResetCounter.
func (db *DB) Count() (int64, error) {
	total, err := db.totalChanges()
	if err != nil {
		return 0, err
	}
	return total - db.resetBaseline, nil
}

// ResetCounter resets the baseline used by Count.
func (db *DB) ResetCounter() error {
	total, err := db.totalChanges()
	if err != nil {
		return err
	}
	db.resetBaseline = total
	return nil
}

func (db *DB) totalChanges() (int64, error) {
	var total int64
	if err := db.conn.QueryRow("SELECT total_changes()").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to read total changes: %w", err)
	}
	return total, nil
}

// Begin starts a transaction. Statements run against the returned Tx
// accumulate until Commit; Rollback discards them.
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, db: db}, nil
}

// registerCursor drains rows into a Cursor and tracks it so Close can
// reap cursors the caller abandoned. Draining here hands the single
// connection back to the pool immediately.
func (db *DB) registerCursor(rows *sqlx.Rows) (*Cursor, error) {
	columns, values, err := materializeRows(rows)
	if err != nil {
		return nil, err
	}

	cursor := &Cursor{
		id:      uuid.NewString(),
		db:      db,
		columns: columns,
		rows:    values,
	}

	db.cursorsMutex.Lock()
	db.cursors[cursor.id] = cursor
	db.cursorsMutex.Unlock()

	return cursor, nil
}

func (db *DB) releaseCursor(id string) {
	db.cursorsMutex.Lock()
	delete(db.cursors, id)
	db.cursorsMutex.Unlock()
}

// OpenCursors returns the number of cursors currently registered.
func (db *DB) OpenCursors() int {
	db.cursorsMutex.Lock()
	defer db.cursorsMutex.Unlock()
	return len(db.cursors)
}

// PurgeCursors closes every registered cursor.
func (db *DB) PurgeCursors() {
	db.cursorsMutex.Lock()
	defer db.cursorsMutex.Unlock()
	for id, cursor := range db.cursors {
		cursor.invalidate()
		delete(db.cursors, id)
	}
}
