// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Port Allocation
const (
	// DefaultBackendBasePort is the published port of the primary backend service
	// in the unsuffixed ("default") compose project
	DefaultBackendBasePort = 8000

	// DefaultWebUIBasePort is the published port of the webui service in the
	// unsuffixed compose project
	DefaultWebUIBasePort = 3000

	// WebUIPortDelta is the fixed distance between a backend port and its
	// webui counterpart: webui = backend - WebUIPortDelta
	WebUIPortDelta = 5000

	// PortOffsetStep is the increment applied between candidate port offsets
	PortOffsetStep = 10

	// PortOffsetRange bounds the name-derived default offset: sum of name
	// bytes mod PortOffsetRange, scaled by PortOffsetStep
	PortOffsetRange = 50

	// MaxPortProbeAttempts bounds the probe-and-retry loop before giving up
	MaxPortProbeAttempts = 100
)

// Network Port Validation
const (
	// MinPortNumber is the minimum valid TCP port number
	MinPortNumber = 1

	// MaxPortNumber is the maximum valid TCP port number
	MaxPortNumber = 65535
)

// Timeouts
const (
	// HealthProbeTimeout bounds health-check style subprocess calls
	HealthProbeTimeout = 2 * time.Second

	// CallbackWaitTimeout bounds the one long-lived external wait (login
	// callback); it self-cancels independent of the caller
	CallbackWaitTimeout = 5 * time.Minute

	// DefaultConnectionTimeout is the default database connection timeout
	DefaultConnectionTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the default database idle connection timeout
	DefaultIdleTimeout = 1 * time.Minute
)

// HTTP Configuration
const (
	// DefaultServerPort is the default port for the ush status API server
	DefaultServerPort = 7680

	// DefaultServerReadTimeout is the default server read timeout
	DefaultServerReadTimeout = 10 * time.Second

	// DefaultServerWriteTimeout is the default server write timeout
	DefaultServerWriteTimeout = 10 * time.Second

	// DefaultServerShutdownTimeout is the default server graceful shutdown timeout
	DefaultServerShutdownTimeout = 30 * time.Second

	// StatusStreamInterval is the cadence of websocket environment snapshots
	StatusStreamInterval = 2 * time.Second
)

// Database Configuration
const (
	// DefaultMaxOpenConnections is the default maximum number of database connections
	DefaultMaxOpenConnections = 25

	// DefaultMaxIdleConnections is the default maximum number of idle database connections
	DefaultMaxIdleConnections = 5
)

// File System Permissions
const (
	// DirPermissions is the standard directory permissions for ush directories
	DirPermissions = 0755

	// FilePermissions is the standard file permissions for ush config files
	FilePermissions = 0644
)

// Naming
const (
	// TmuxSessionPrefix prefixes every tmux session ush creates
	TmuxSessionPrefix = "ush-"

	// TmuxWindowPrefix prefixes every ticket-bound tmux window
	TmuxWindowPrefix = "ushadow-"
)
