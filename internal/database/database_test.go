package database

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-dashboard/internal/config"
)

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "mongodb://h:27017/?tls=true", withQuery("mongodb://h:27017", "tls=true"))
	assert.Equal(t, "mongodb://h:27017/films?tls=true", withQuery("mongodb://h:27017/films", "tls=true"))
	assert.Equal(t, "mongodb://h/?w=1&tls=true", withQuery("mongodb://h/?w=1", "tls=true"))
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.DBConfig{User: "u", Pass: "p", Host: "db", Name: "films"})
	assert.True(t, strings.HasPrefix(dsn, "u:p@tcp(db:3306)/films?"), dsn)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Equal(t, "utf8mb4", parsed.Params["charset"])
}
