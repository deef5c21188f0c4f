package ioweb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
)

func ServerError(port int, err error) error {
	msg := "Cannot run web service on port %d"
	vars := []any{port}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WebServerError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: port %d: %w", fn.Name(), port, err),
	}
}
