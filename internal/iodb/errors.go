package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
)

// ConnectionError is returned when the database cannot be reached.
func ConnectionError(target string, err error) error {
	msg := `Cannot connect to <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - SQLite file is not writable

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready</em>
  2. Review settings: <em>gnspecies config</em>`
	vars := []any{target}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s: %w",
			fn.Name(), target, err),
	}
}

// TableCheckError is returned when listing of tables fails.
func TableCheckError(err error) error {
	msg := "Cannot verify database state"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot check tables: %w",
			fn.Name(), err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot drop %s: %w",
			fn.Name(), table, err),
	}
}

// ReadError wraps failed store reads.
func ReadError(what string, err error) error {
	msg := "Cannot read %s from the store"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn.Name(), what, err),
	}
}

// WriteError wraps failed store writes.
func WriteError(what string, err error) error {
	msg := "Cannot save %s to the store"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn.Name(), what, err),
	}
}

// OptimizeError is returned when a maintenance step fails.
func OptimizeError(step string, err error) error {
	msg := "Cannot %s"
	vars := []any{step}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOptimizeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot %s: %w", fn.Name(), step, err),
	}
}
