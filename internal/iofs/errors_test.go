package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		path string
		msg  string
	}{
		{
			name: "create dir",
			err:  CreateDirError("/test/dir", cause),
			code: errcode.CreateDirError,
			path: "/test/dir",
			msg:  "cannot create",
		},
		{
			name: "copy file",
			err:  CopyFileError("/test/config.yaml", cause),
			code: errcode.CopyFileError,
			path: "/test/config.yaml",
			msg:  "cannot copy",
		},
		{
			name: "read file",
			err:  ReadFileError("/test/queries.txt", cause),
			code: errcode.ReadFileError,
			path: "/test/queries.txt",
			msg:  "cannot read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.True(t, errors.As(tt.err, &gnErr))
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "%s")
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.path, gnErr.Vars[0])
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), tt.msg)
			assert.Contains(t, gnErr.Err.Error(), "from")
		})
	}
}
