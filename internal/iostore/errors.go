package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
)

func BackendError(backend string) error {
	msg := "Backend <em>%s</em> does not use SQL tables"
	vars := []any{backend}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreBackendError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no SQL for %s backend", fn.Name(), backend),
	}
}

func NoTablesError(database string) error {
	msg := `Database <em>%s</em> has no tables

<em>How to fix:</em>
  Create them with <em>gnspecies create</em>`
	vars := []any{database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreBackendError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: database %s is empty", fn.Name(), database),
	}
}
