package alogger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFileRetry(path string, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return data, nil
		}
		lastErr = err
		time.Sleep(5 * time.Millisecond)
	}
	return nil, lastErr
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition never became true within %s", timeout)
}

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer, *SinkStdout) {
	l := New()
	t.Cleanup(l.Stop)

	var buf bytes.Buffer
	sink := NewSinkStdout("stdout", Info, false)
	sink.SetOutput(&buf)
	l.AddSinkStdout(sink)
	return l, &buf, sink
}

func TestLevelRoundTrip(t *testing.T) {
	for _, lvl := range []Level{None, Error, Warning, Info, Verbose, Debug, Debug2} {
		got := LevelFromString(lvl.String())
		assert.Equal(t, lvl, got, "round trip for %s", lvl)
	}
	assert.Equal(t, Info, LevelFromString("nonsense"))
}

func TestEmissionReachesStdoutSink(t *testing.T) {
	l, buf, _ := newTestLogger(t)

	l.Info().Msg("hello world")

	waitFor(t, time.Second, func() bool { return buf.Len() > 0 })
	assert.Contains(t, buf.String(), "hello world")
	assert.Contains(t, buf.String(), "INFO")
}

func TestEmissionBelowSinkLevelIsDropped(t *testing.T) {
	l, buf, _ := newTestLogger(t)

	l.Debug().Msg("should not appear")
	l.Flush(1)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, buf.String())
}

func TestDisabledLoggerIsNoOp(t *testing.T) {
	l, buf, _ := newTestLogger(t)
	l.Off()

	l.Error().Msg("swallowed")
	l.Flush(1)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, buf.String())
	l.On()
}

func TestAggregateLevelTracksSinkChanges(t *testing.T) {
	l, _, _ := newTestLogger(t)
	assert.Equal(t, Info, l.CurrentLevel())

	fileSink, err := NewSinkFile("f", t.TempDir()+"/out.log", Debug2, false)
	require.NoError(t, err)
	l.AddSink(fileSink)
	assert.Equal(t, Debug2, l.CurrentLevel())

	l.RemoveSink("f")
	assert.Equal(t, Info, l.CurrentLevel())
}

func TestModuleFilterExcludesMatchingRecords(t *testing.T) {
	l, buf, sink := newTestLogger(t)

	f := NewModuleFilter("skip-noisy", Exclude)
	f.AddModule("noisy")
	sink.AddFilter(f)

	l.Info().Module("noisy").Msg("quiet please")
	l.Info().Module("important").Msg("keep me")

	waitFor(t, time.Second, func() bool { return strings.Contains(buf.String(), "keep me") })
	assert.NotContains(t, buf.String(), "quiet please")
}

func TestFlushAcceleratesCustomSink(t *testing.T) {
	l := New()
	defer l.Stop()
	l.SetFlushTime(time.Hour)
	l.SetFlushSize(1 << 30)

	path := t.TempDir() + "/custom.log"
	fs, err := NewSinkFile("custom", path, Info, false)
	require.NoError(t, err)
	l.AddSink(fs)

	l.Info().Msg("flushed now")
	l.Flush(1)
	l.WaitingFlush()

	data, err := readFileRetry(path, time.Second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flushed now")
}

func TestStdBridgeRoutesThroughLogger(t *testing.T) {
	l, buf, _ := newTestLogger(t)

	std := l.Std("bridged")
	std.Print("via stdlib")

	waitFor(t, time.Second, func() bool { return buf.Len() > 0 })
	assert.Contains(t, buf.String(), "via stdlib")
}
