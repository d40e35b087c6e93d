package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDatabase_PingStatsClose(t *testing.T) {
	gormDB, mock, _ := newMockGormDBWithPings(t)
	db, err := wrap(gormDB)
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, db.PingContext(context.Background()))
	assert.Same(t, db.sql, db.SQL())

	core, logs := observer.New(zap.InfoLevel)
	db.LogPoolStats(zap.New(core))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Contains(t, fields, "open")
	assert.Contains(t, fields, "wait_count")

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
