package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/freelance-marketplace/internal/config"
)

func TestMigrateSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, zap.NewNop()))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, db, zap.NewNop()))

	var claimed bool
	require.NoError(t, db.GetContext(ctx, &claimed, "SELECT claimed FROM superuser_bootstrap WHERE id = 1"))
	assert.False(t, claimed)

	var fk int
	require.NoError(t, db.GetContext(ctx, &fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestDSNs(t *testing.T) {
	cfg := config.DBConfig{User: "app", Pass: "p@ss", Host: "db", Port: "3306", Name: "market", SSLMode: "disable"}

	my := mysqlDSN(cfg)
	assert.True(t, strings.HasPrefix(my, "app:p@ss@tcp(db:3306)/market?"), my)
	assert.Contains(t, my, "parseTime=true")

	cfg.Port = "5432"
	pg := postgresDSN(cfg)
	assert.True(t, strings.HasPrefix(pg, "postgres://app:p%40ss@db:5432/market?"), pg)
	assert.Contains(t, pg, "sslmode=disable")
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
