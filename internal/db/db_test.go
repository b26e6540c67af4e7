package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bingo-cards-backend/config"
	"bingo-cards-backend/internal/model"
)

func TestDialector(t *testing.T) {
	testCases := []struct {
		dsn  string
		want string
	}{
		{dsn: "postgres://u:p@localhost:5432/bingo", want: "postgres"},
		{dsn: "postgresql://localhost/bingo", want: "postgres"},
		{dsn: "host=localhost user=bingo dbname=bingo", want: "postgres"},
		{dsn: "file:bingo.db", want: "sqlite"},
		{dsn: "file::memory:?cache=shared", want: "sqlite"},
	}
	for _, tc := range testCases {
		t.Run(tc.dsn, func(t *testing.T) {
			assert.Equal(t, tc.want, Dialector(tc.dsn).Name())
		})
	}
}

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{DSN: "file:dbinit?mode=memory&cache=shared", MaxOpenConns: 1}
	gormDB, err := Init(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.True(t, gormDB.Migrator().HasTable(&model.Game{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.Draw{}))
}
