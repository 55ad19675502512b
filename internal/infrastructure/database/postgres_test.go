package database

import (
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  postgres://u:p@h/db  ", "postgres://u:p@h/db"},
		{"postgresql+asyncpg://u:p@h:5432/db", "postgresql://u:p@h:5432/db"},
		{"postgres+pgx://u@h/db?sslmode=disable", "postgres://u@h/db?sslmode=disable"},
		{"postgresql+psycopg://u@h/db", "postgresql://u@h/db"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, normalizeDSN(tc.in), tc.in)
	}
}

func TestSchemaIsEmbedded(t *testing.T) {
	require.True(t, strings.Contains(schema, "swipe.decision"))
	require.True(t, strings.Contains(schema, "chat_pair_key_unique"))
}

func TestPoolDefaultsRespectDSN(t *testing.T) {
	dsn := "postgres://u:p@localhost:5432/db?sslmode=disable&pool_max_conns=17&pool_max_conn_lifetime=2h"
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	applyPoolDefaults(cfg, dsn)
	require.EqualValues(t, 17, cfg.MaxConns)
	require.Equal(t, 2*time.Hour, cfg.MaxConnLifetime)
	require.Equal(t, defaultMaxConnIdleTime, cfg.MaxConnIdleTime)
	require.Equal(t, defaultHealthCheckPeriod, cfg.HealthCheckPeriod)

	WithMaxConns(0)(cfg)
	require.EqualValues(t, 17, cfg.MaxConns)
	WithMaxConns(9)(cfg)
	require.EqualValues(t, 9, cfg.MaxConns)

	kv := "host=localhost user=u pool_max_conns=3"
	cfg, err = pgxpool.ParseConfig(kv)
	require.NoError(t, err)
	applyPoolDefaults(cfg, kv)
	require.EqualValues(t, 3, cfg.MaxConns)

	plain := "postgres://u:p@localhost:5432/db"
	cfg, err = pgxpool.ParseConfig(plain)
	require.NoError(t, err)
	applyPoolDefaults(cfg, plain)
	require.EqualValues(t, defaultMaxConns, cfg.MaxConns)
	require.Equal(t, defaultMaxConnLifetime, cfg.MaxConnLifetime)
}
