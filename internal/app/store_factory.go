package app

import (
	"fmt"

	"github.com/shrimpsizemoose/semla/internal/store"
	"github.com/shrimpsizemoose/semla/internal/store/fs"
	"github.com/shrimpsizemoose/semla/internal/store/postgres"
	"github.com/shrimpsizemoose/semla/internal/store/redis"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
)

func NewStore(dsn string) (store.ResultStore, error) {
	dbType, addr := store.DetectType(dsn)

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(addr)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(addr)
	case store.DBTypeRedis:
		return redis.NewRedisStore(addr)
	case store.DBTypeFS:
		return fs.NewFileStore(addr)
	default:
		return nil, fmt.Errorf("unable to determine store type from DSN: %s", dsn)
	}
}
