package iosearch

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
)

// EmptyQueryError is returned for a blank search query.
func EmptyQueryError() error {
	msg := "Query parameter is required"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SearchEmptyQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), errors.New("empty query")),
	}
}

// IsEmptyQuery reports if err is caused by a blank query.
func IsEmptyQuery(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) && gnErr.Code == errcode.SearchEmptyQueryError
}
