package config

// Files defaults.
const (
	DefaultMaxFileSize = "1MB"
)

// DefaultExtensions lists the source file extensions transformed by default.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

// Runtime defaults.
const (
	DefaultWorkers = 0 // 0 = NumCPU.
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
)
