package validation

// Upload limits
const (
	// DefaultMaxUploadBytes is the default cap on a CSV upload request body (10 MiB).
	DefaultMaxUploadBytes = 10 << 20

	// MultipartMemory is how much of a multipart body is buffered in memory
	// before spilling parts to temporary files.
	MultipartMemory = 8 << 20
)

// Paging limits
const (
	// MinPageNum is the smallest 1-based page number a caller may request.
	MinPageNum = 1

	// MinPageSize is the smallest page size a caller may request.
	MinPageSize = 1
)
