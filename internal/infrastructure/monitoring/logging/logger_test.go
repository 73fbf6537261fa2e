package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "f", Value: 1.5}, Float64("f", 1.5))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestZapLoggerEmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("featurized structure", String("structure", "IRMOF-1"), Int("sites", 424))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "featurized structure", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "IRMOF-1", ctx["structure"])
	assert.EqualValues(t, 424, ctx["sites"])
}

func TestWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).Named("featurize").With(String("request_id", "abc"))

	log.Warn("slow tessellation")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "featurize", entries[0].LoggerName)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestNewLoggerDefaults(t *testing.T) {
	log, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must not panic and must return usable children.
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
	assert.NotNil(t, log.With(String("a", "b")))
	assert.NotNil(t, log.Named("child"))
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("hello")
	assert.Equal(t, 1, logs.Len())

	// nil is ignored
	SetDefault(nil)
	assert.NotNil(t, Default())
}
