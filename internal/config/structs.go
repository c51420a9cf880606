package config

import (
	"time"

	"github.com/adminconsole/admin-console/internal/logger"
)

const (
	// SessionStorageMemory keeps session data in process memory.
	SessionStorageMemory = "memory"
	// SessionStorageMySQL keeps session data in a mysql table.
	SessionStorageMySQL = "mysql"
	// SessionStoragePostgres keeps session data in a postgres table.
	SessionStoragePostgres = "postgres"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Storage    string // memory, mysql or postgres
	Table      string // table name used by the sql session storages
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	OIDC      OIDC
	Settings  Settings
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// OIDC configures verification of bearer ID tokens issued by the external identity provider.
type OIDC struct {
	Enabled     bool
	IssuerURL   string
	ClientID    string
	AdminEmails []string // users created with one of these emails get the admin role
}

// Settings configures how settings groups are persisted.
type Settings struct {
	// Strategies maps a settings group (theme, display, system) to incremental or replace-all.
	Strategies map[string]string
	// MaxConcurrency bounds the store calls in flight for one save, 0 means unbounded.
	MaxConcurrency int
	// PolicyRefresh is how long the cached maintenance policy is trusted before reloading.
	PolicyRefresh time.Duration
	// SeedDefaults writes the default of every declared key that is not stored yet on start.
	SeedDefaults bool
}
