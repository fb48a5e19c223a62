package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIsSilent(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("hello", "k", "v")
		Error("bad", "error", "x")
	})
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := GetLogger()
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(prev) })

	Info("booking committed", "ref", "ABC123", "tickets", 2)
	Debug("dropped")
	WithRequest("req-1", "GET", "/flights").Warnw("slow")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "booking committed", entries[0].Message)
	assert.Equal(t, "ABC123", entries[0].ContextMap()["ref"])
	assert.Equal(t, "/flights", entries[1].ContextMap()["path"])
}

func TestInit(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, Init("production"))
	assert.NotSame(t, prev, GetLogger())
}
