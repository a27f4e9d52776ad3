package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture enables output into a buffer and restores defaults on cleanup.
func capture(t *testing.T, on bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(on)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(nil)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] chunk 3 of 7\n"},
		{"info", Info, "[INFO] chunk 3 of 7\n"},
		{"warn", Warn, "[WARN] chunk 3 of 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("chunk %d of %d", 3, 7)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")
	Timed("e")()

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Ingest")
	assert.Equal(t, "\n=== Ingest ===\n", buf.String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)
	done := Timed("embed query")
	done()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[DEBUG] embed query took "), out)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}

func TestSetOutput_NilRestoresStderr(t *testing.T) {
	capture(t, false)
	SetOutput(nil)
	assert.NotNil(t, std.w)
}

func TestConcurrentWrites(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Info("worker %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 20)
}
