package postgres

import (
	"context"
	"testing"

	"skillpath/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "skillpath",
		DBPassword: "it's secret",
		DBName:     "skillpath",
		DBSSLMode:  "disable",
	}

	dsn := DSN(cfg, "skillpath engine")
	assert.Equal(t, `host=db port=5432 user=skillpath password='it\'s secret' dbname=skillpath sslmode=disable application_name='skillpath engine'`, dsn)

	pcfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "it's secret", pcfg.ConnConfig.Password)
	assert.Equal(t, "skillpath engine", pcfg.ConnConfig.RuntimeParams["application_name"])
}

func TestDSN_EmptyPassword(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBUser: "u", DBName: "n"}, "")
	assert.Equal(t, "host=db port=5432 user=u password='' dbname=n", dsn)
}

func TestStatements_NilQuerier(t *testing.T) {
	var s statements
	ctx := context.Background()

	_, err := s.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilDB)
	_, err = s.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilDB)
	assert.ErrorIs(t, s.QueryRow(ctx, "SELECT 1").Scan(), errNilDB)

	var p *Pool
	assert.ErrorIs(t, p.Ping(ctx), errNilDB)
	assert.NoError(t, p.Close())
	assert.Nil(t, p.SQLDB())
}
