package iogbif

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
)

func RequestError(url string, err error) error {
	msg := "GBIF request failed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpstreamRequestError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: GET %s: %w", fn.Name(), url, err),
	}
}

func StatusError(url string, status int) error {
	msg := "GBIF responded with status %d"
	vars := []any{status}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpstreamStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: GET %s: status %d", fn.Name(), url, status),
	}
}

func DecodeError(url string, err error) error {
	msg := "Cannot read GBIF response"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpstreamDecodeError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: decode %s: %w", fn.Name(), url, err),
	}
}
