package store

import "strings"

type DatabaseType string

const (
	DBTypeFS       DatabaseType = "fs"
	DBTypeSQLite   DatabaseType = "sqlite"
	DBTypePostgres DatabaseType = "postgres"
	DBTypeRedis    DatabaseType = "redis"
)

const sqlitePrefix = "sqlite:"

// DetectType maps a DSN to a backend and the address that backend should open.
// Anything without a known prefix is a directory for the plain-file store.
func DetectType(dsn string) (DatabaseType, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DBTypePostgres, dsn
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return DBTypeRedis, dsn
	case strings.HasPrefix(dsn, sqlitePrefix):
		return DBTypeSQLite, strings.TrimPrefix(dsn, sqlitePrefix)
	default:
		return DBTypeFS, dsn
	}
}
