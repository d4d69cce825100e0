package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectType(t *testing.T) {
	testCases := []struct {
		dsn      string
		dbType   DatabaseType
		expected string
	}{
		{dsn: "postgres://u:p@localhost/semla", dbType: DBTypePostgres, expected: "postgres://u:p@localhost/semla"},
		{dsn: "postgresql://localhost/semla", dbType: DBTypePostgres, expected: "postgresql://localhost/semla"},
		{dsn: "redis://localhost:6379/0", dbType: DBTypeRedis, expected: "redis://localhost:6379/0"},
		{dsn: "sqlite:grades.db", dbType: DBTypeSQLite, expected: "grades.db"},
		{dsn: "sqlite::memory:", dbType: DBTypeSQLite, expected: ":memory:"},
		{dsn: "./submissions", dbType: DBTypeFS, expected: "./submissions"},
	}

	for _, tc := range testCases {
		t.Run(tc.dsn, func(t *testing.T) {
			dbType, addr := DetectType(tc.dsn)
			assert.Equal(t, tc.dbType, dbType)
			assert.Equal(t, tc.expected, addr)
		})
	}
}
