// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/larik-22/howufeelin/internal/config"
)

// Create builds the MySQL Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// CreateSQLite builds the sqlite DSN from the configuration.
// Falls back to a local file next to the binary when no path is configured.
func CreateSQLite(dbCfg *config.Config) string {
	if dbCfg.DB.SQLitePath == "" {
		return "howufeelin.db"
	}

	return dbCfg.DB.SQLitePath
}
