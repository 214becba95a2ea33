package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, development := range []bool{true, false} {
		logger, err := New(development)
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("logger works")
		_ = logger.Sync()
	}
}

func TestForStageTagsEveryEntry(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := ForStage(zap.New(core), "crawl")
	logger.Info("page fetched")

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, "crawl", entries[0].LoggerName)
	require.Equal(t, "crawl", entries[0].ContextMap()["stage"])
}
