package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDevelopment(t *testing.T) {
	logger, err := New(DevelopmentConfig())
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "debug should be enabled in development")
}

func TestNamedKeepsWrapper(t *testing.T) {
	child := NewNop().Named("fetch")
	require.NotNil(t, child)
	require.NotNil(t, child.Logger)
	child.Info("discarded")
}
