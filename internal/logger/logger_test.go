package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapterCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"operation": "extract"}).
		WithError(errors.New("upstream closed")).
		Warn("llm.request.failed", map[string]interface{}{"model": "llama-3.3-70b-versatile"})
	log.Debug("dropped below level", nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "llm.request.failed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "extract", fields["operation"])
	assert.Equal(t, "llama-3.3-70b-versatile", fields["model"])
	assert.Equal(t, "upstream closed", fields["error"])
}

func TestNoOpLoggerAcceptsNilFields(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Info("nothing", nil)
		log.WithFields(nil).Error("still nothing", nil)
	})
}
