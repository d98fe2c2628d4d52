package alogger

import (
	"bufio"
	"io"
	"os"
	"time"
)

// streamSink is the shared implementation behind SinkStdout and
// SinkStderr — in the reference implementation SaverStdErr is a subclass
// of SaverStdOut that only swaps the destination stream; here both wrap
// the same pointer-shared impl instead, which keeps Flush defined once.
type streamSink struct {
	baseSink
	out           io.Writer
	shortMessages bool
}

func newStreamSink(name string, level Level, shortMessages bool, out io.Writer) *streamSink {
	return &streamSink{baseSink: newBaseSink(name, level, 0), out: out, shortMessages: shortMessages}
}

// SetOutput substitutes the destination writer. Tests use this to
// capture output in a bytes.Buffer instead of the real stdout/stderr.
func (s *streamSink) SetOutput(w io.Writer) { s.out = w }

func (s *streamSink) Flush(batch []*Record) {
	if len(batch) == 0 {
		return
	}

	now := time.Now()
	filters := s.Filters()
	for _, f := range filters {
		f.removeIdsTimeoutThreads(now)
	}
	filtersActive := s.filtersActiveSnapshot()
	level := s.Level()

	bw := bufio.NewWriter(s.out)
	flushed := 0
	for _, r := range batch {
		if r.Level > level {
			continue
		}
		if skipMessage(r, filters, filtersActive) {
			continue
		}

		if !s.shortMessages {
			bw.Write(r.prefix1Bytes())
			bw.Write(r.prefix2Bytes())
			bw.Write(r.prefix3Bytes())
		}
		bw.WriteString(lineBody(r, s.MaxLineSize()))
		bw.WriteByte('\n')

		flushed++
		if flushed%50 == 0 {
			if err := bw.Flush(); err != nil {
				panicLog(s.Name(), err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		panicLog(s.Name(), err)
	}
}

// SinkStdout writes to the process' stdout stream. A short_messages
// sink omits the prefix entirely, used for TTY-interactive output.
type SinkStdout struct {
	*streamSink
}

func NewSinkStdout(name string, level Level, shortMessages bool) *SinkStdout {
	return &SinkStdout{newStreamSink(name, level, shortMessages, os.Stdout)}
}
