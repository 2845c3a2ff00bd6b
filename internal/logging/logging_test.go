package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/payment-ledger/internal/logging"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"nonsense", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		l, err := logging.New(tt.level, "console")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want.Level()))
		if tt.want.Level() > zap.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want.Level()-1))
		}
	}

	_, err := logging.New("info", "yaml")
	require.Error(t, err)
}
