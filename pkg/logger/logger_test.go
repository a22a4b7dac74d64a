package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	assert.Equal(t, "debug", LevelString())

	Init("WARN")
	assert.Equal(t, "warn", LevelString())

	Init("Error")
	assert.Equal(t, "error", LevelString())

	Init("nonsense")
	assert.Equal(t, "info", LevelString())

	Init("  fatal ")
	assert.Equal(t, "fatal", LevelString())

	Init("info")
}

func TestLoggingDoesNotPanic(t *testing.T) {
	Init("debug")
	Debugf("debug %s", "msg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("error %v", assert.AnError)
	Debug("plain debug")
	Info("plain info")
	Warn("plain warn")
	Error("plain error")
	Sync()
	Init("info")
}
