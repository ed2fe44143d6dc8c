package db

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestExecBestEffortLogsFailures(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:exec_best_effort?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	execBestEffort(gdb, log, []string{
		"CREATE TABLE IF NOT EXISTS reset_ok (id integer)",
		"DELETE FROM no_such_table",
	})

	out := buf.String()
	assert.Contains(t, out, "id sequence reset failed")
	assert.Contains(t, out, "no_such_table")
	assert.NotContains(t, out, "reset_ok", "successful statements stay quiet")
}
