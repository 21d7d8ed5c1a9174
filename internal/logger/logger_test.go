package logger_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"sigil/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":       zapcore.WarnLevel,
		"debug":  zapcore.DebugLevel,
		" INFO ": zapcore.InfoLevel,
		"error":  zapcore.ErrorLevel,
	} {
		log, err := logger.New(in, "")
		require.NoError(t, err, in)
		require.True(t, log.Core().Enabled(want), in)
		if want > zapcore.DebugLevel {
			require.False(t, log.Core().Enabled(want-1), in)
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logger.New("loud", "")
	require.Error(t, err)
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", "console", "JSON"} {
		log, err := logger.New("info", format)
		require.NoError(t, err, format)
		require.True(t, log.Core().Enabled(zapcore.InfoLevel), format)
	}

	_, err := logger.New("info", "xml")
	require.Error(t, err)
}
