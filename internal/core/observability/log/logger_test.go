package log

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelInfo)

	l.Debug("hidden")
	l.Info("step", Float64("velocity", 12.5), String("state", "accelerating"), Int("frame", 3))
	l.Error("lookup", Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "step", entries[0].Message)
	assert.Equal(t, 12.5, entries[0].ContextMap()["velocity"])
	assert.Equal(t, "accelerating", entries[0].ContextMap()["state"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("visible")
	assert.Equal(t, 3, logs.Len())
}

func TestWithKeepsLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelWarn)

	child := l.With(String("agent", "a1"))
	child.Info("dropped")
	child.Warn("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a1", logs.All()[0].ContextMap()["agent"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	assert.Equal(t, LevelFatal, l.GetLevel())
}

func TestProvideConcurrentWithNew(t *testing.T) {
	const n = 16
	got := make([]*Logger, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				New(LevelWarn)
			}
			got[i] = Provide()
		}()
	}
	wg.Wait()

	for _, l := range got {
		require.NotNil(t, l)
		assert.Same(t, got[0], l)
	}
	assert.Same(t, got[0], Provide())
}
