package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBDropTableError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreBackendError
	StoreReadError
	StoreWriteError
	StoreOptimizeError

	// Cache errors
	CacheOpenError
	CacheNotOpenError
	CacheReadError
	CacheWriteError

	// Upstream provider errors
	UpstreamRequestError
	UpstreamStatusError
	UpstreamDecodeError

	// Search errors
	SearchEmptyQueryError

	// Web errors
	WebServerError
)
