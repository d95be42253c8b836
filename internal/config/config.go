package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// MaxDBConns and MinDBConns bound the pgx connection pool.
	MaxDBConns = 10
	MinDBConns = 2
)
