package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndRestore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	defer Set(nil)

	L().Debug("handle freed", zap.Uint64("handle", 42))
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "handle freed", logs.All()[0].Message)

	Set(nil)
	L().Debug("dropped")
	assert.Equal(t, 1, logs.Len())
}

func TestNew(t *testing.T) {
	l, err := New(false)
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(true)
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GBLN_LOG", "warn")
	l := FromEnv()
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	t.Setenv("GBLN_LOG", "")
	assert.False(t, FromEnv().Core().Enabled(zapcore.ErrorLevel))
}

func TestParseLevel(t *testing.T) {
	lvl, ok := parseLevel(" DEBUG ")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, ok = parseLevel("verbose")
	assert.False(t, ok)
}
