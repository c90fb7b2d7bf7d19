package pgutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/config"
)

func TestConnectDB_UnreachableHostGivesUp(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "bridgewatch",
		Database:        "bridgewatch",
		DialTimeout:     100 * time.Millisecond,
		ConnectAttempts: 2,
	}

	start := time.Now()
	db, err := ConnectDB(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to connect to database bridgewatch")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestConnectDB_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConnectDB(ctx, &config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, Database: "bridgewatch", ConnectAttempts: 5,
	}, nil)
	require.Error(t, err)
}

func TestConnectDB_Container(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Ping())
	var one int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)
}
