// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/adminconsole/admin-console/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
// For sqlite the database name is the file path.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.GormEnginePostgres:
		return Postgres(dbCfg)
	case config.GormEngineSQLite:
		return dbCfg.DB.Name
	default:
		return MySQL(dbCfg)
	}
}

// MySQL builds a go-sql-driver DSN.
func MySQL(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
	)

	if dbCfg.DB.Extras != "" {
		out += "?" + dbCfg.DB.Extras
	}

	return out
}

// Postgres builds a keyword/value DSN understood by pgx. Extras are appended as is.
func Postgres(dbCfg *config.Config) string {
	parts := []string{
		"host=" + dbCfg.DB.Host,
		fmt.Sprintf("port=%d", dbCfg.DB.Port),
		"user=" + dbCfg.DB.User,
		"password=" + quote(dbCfg.DB.Password),
		"dbname=" + dbCfg.DB.Name,
	}

	if dbCfg.DB.Extras != "" {
		parts = append(parts, dbCfg.DB.Extras)
	}

	return strings.Join(parts, " ")
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}

	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
