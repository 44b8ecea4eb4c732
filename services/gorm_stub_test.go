package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Scripted database/sql driver: each expected statement is one step, matched
// in order by a regexp. Steps with nil args skip argument checking, since
// GORM adds timestamps we cannot predict.

type stubKind int

const (
	stubQuery stubKind = iota
	stubExec
)

type stubStep struct {
	kind         stubKind
	pattern      *regexp.Regexp
	args         []driver.Value
	columns      []string
	rows         [][]driver.Value
	err          error
	lastInsertID int64
	rowsAffected int64
}

type stubDB struct {
	mu         sync.Mutex
	steps      []*stubStep
	commitErrs []error
	commits    int
	rollbacks  int
}

func (db *stubDB) next(kind stubKind, query string, args []driver.NamedValue) (*stubStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected statement: %s", query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for %s: got %v want %v", query, kind, step.kind)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("statement %q does not match %q", query, step.pattern)
	}
	if step.args != nil {
		if len(step.args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
		}
		for i := range args {
			if args[i].Value != step.args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.args[i])
			}
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *stubDB) nextCommitErr() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.commits++
	if len(db.commitErrs) == 0 {
		return nil
	}
	err := db.commitErrs[0]
	db.commitErrs = db.commitErrs[1:]
	return err
}

func (db *stubDB) noteRollback() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rollbacks++
}

func (db *stubDB) rollbackCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.rollbacks
}

func (db *stubDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("%d expected statements never ran", len(db.steps))
	}
	return nil
}

type stubDriver struct {
	db *stubDB
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return &stubConn{db: d.db}, nil
}

type stubConn struct {
	db *stubDB
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not supported")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return &stubTx{db: c.db}, nil
}

func (c *stubConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(stubQuery, query, args)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if step.err != nil {
		return nil, step.err
	}
	return &stubRows{columns: step.columns, rows: step.rows}, nil
}

func (c *stubConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	return c.QueryContext(context.Background(), query, namedValues(args))
}

func (c *stubConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(stubExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	return stubResult{lastInsertID: step.lastInsertID, rowsAffected: step.rowsAffected}, nil
}

func (c *stubConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	return c.ExecContext(context.Background(), query, namedValues(args))
}

func namedValues(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

type stubTx struct {
	db *stubDB
}

func (t *stubTx) Commit() error {
	return t.db.nextCommitErr()
}

func (t *stubTx) Rollback() error {
	t.db.noteRollback()
	return nil
}

type stubResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (r stubResult) LastInsertId() (int64, error) { return r.lastInsertID, nil }

func (r stubResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *stubRows) Columns() []string { return r.columns }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newStubGormDB(t *testing.T, state *stubDB) (*gorm.DB, func()) {
	t.Helper()
	driverName := fmt.Sprintf("stub_%d", time.Now().UnixNano())
	sql.Register(driverName, &stubDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, cleanup
}
