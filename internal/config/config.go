// Package config provides centralized configuration for the table server and
// the tablectl CLI. Settings come from environment variables with defaults
// and are validated on startup so misconfiguration fails fast.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Table    TableConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StorageConfig selects where the table snapshot is persisted.
type StorageConfig struct {
	// Driver is one of memory, file, sqlite (default: file)
	Driver string `env:"STORAGE_DRIVER" default:"file"`

	// Path is the directory (file) or database file (sqlite) (default: data)
	Path string `env:"STORAGE_PATH" default:"data"`

	// Key is the namespaced snapshot key (default: persist:table)
	Key string `env:"STORAGE_KEY" default:"persist:table"`

	// FlushInterval batches saves; 0 writes through on every change (default: 0s)
	FlushInterval time.Duration `env:"STORAGE_FLUSH_INTERVAL" default:"0s"`
}

// TableConfig holds mutation policy and view defaults.
type TableConfig struct {
	// ProtectedColumns cannot be deleted (default: name,email,age,role)
	ProtectedColumns []string `env:"TABLE_PROTECTED_COLUMNS" default:"name,email,age,role"`

	// RowsPerPage is the page size of a fresh table (default: 10)
	RowsPerPage int `env:"TABLE_ROWS_PER_PAGE" default:"10"`

	// JournalSize bounds the in-memory intent journal (default: 200)
	JournalSize int `env:"TABLE_JOURNAL_SIZE" default:"200"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// RequiredFields must appear as headers (default: name,email,age,role)
	RequiredFields []string `env:"IMPORT_REQUIRED_FIELDS" default:"name,email,age,role"`

	// ExtraFields is register or reject (default: register)
	ExtraFields string `env:"IMPORT_EXTRA_FIELDS" default:"register"`

	// MatchLabels resolves headers by column label too (default: true)
	MatchLabels bool `env:"IMPORT_MATCH_LABELS" default:"true"`

	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel imports (default: 2)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for an import slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"10s"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerSecond is the sustained rate per client IP (default: 10)
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" default:"10"`

	// Burst is the token bucket size (default: 30)
	Burst int `env:"RATE_LIMIT_BURST" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards mutating endpoints with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
