// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxUploadSize is the maximum size of one uploaded document.
	MaxUploadSize = 50 << 20 // 50 MB

	// MaxUploadMemory is the in-memory buffer for multipart parsing;
	// larger uploads spill to temp files.
	MaxUploadMemory = 8 << 20 // 8 MB

	// MaxJSONBodySize is the maximum size for lifecycle JSON requests.
	MaxJSONBodySize = 1 << 20 // 1 MB
)
