package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*DebateMeshLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return l, &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &record))
	return record
}

func TestDebateMeshLogger_KeyValueArgs(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.Info("run started", "run_id", "abc-123", "steps", 3)

	record := lastRecord(t, buf)
	assert.Equal(t, "run started", record["msg"], "message must not absorb the key/value args")
	assert.NotContains(t, record["msg"], "%!")
	assert.Equal(t, "abc-123", record["run_id"])
	assert.EqualValues(t, 3, record["steps"])
}

func TestDebateMeshLogger_ContextualAttrsSurvive(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.WithComponent("engine").WithRun("run-1").Info("step recorded", "step", 0)

	record := lastRecord(t, buf)
	assert.Equal(t, "engine", record["component"])
	assert.Equal(t, "run-1", record["run_id"])
	assert.EqualValues(t, 0, record["step"])
}

func TestDebateMeshLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelWarn)

	l.Info("suppressed", "k", "v")
	assert.Zero(t, buf.Len())

	l.Warn("emitted", "k", "v")
	record := lastRecord(t, buf)
	assert.Equal(t, "emitted", record["msg"])
	assert.Equal(t, "v", record["k"])
}

func TestDebateMeshLogger_StartTimer(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.StartTimer("plan")()

	record := lastRecord(t, buf)
	assert.Equal(t, "Operation completed", record["msg"])
	assert.NotContains(t, record["msg"], "%!")
	assert.Equal(t, "plan", record["operation"])
	assert.Contains(t, record, "duration")
}
