package alogger

import (
	"bufio"
	"os"
	"time"

	"github.com/pkg/errors"
)

// SinkFile opens its destination append-only per flush and closes it
// again afterward — no long-lived file descriptor is held between
// flushes, matching spec §5's file-handle policy.
type SinkFile struct {
	baseSink
	path string
}

// NewSinkFile truncates path once, at construction, unless cont is true.
func NewSinkFile(name, path string, level Level, cont bool) (*SinkFile, error) {
	if !cont {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "sink %s: truncate %s", name, path)
		}
		f.Close()
	}
	return &SinkFile{baseSink: newBaseSink(name, level, 0), path: path}, nil
}

func (s *SinkFile) Flush(batch []*Record) {
	if len(batch) == 0 {
		return
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panicLog(s.Name(), err)
		return
	}
	defer f.Close()

	now := time.Now()
	filters := s.Filters()
	for _, flt := range filters {
		flt.removeIdsTimeoutThreads(now)
	}
	filtersActive := s.filtersActiveSnapshot()
	level := s.Level()

	bw := bufio.NewWriter(f)
	flushed := 0
	for _, r := range batch {
		if r.Level > level {
			continue
		}
		if skipMessage(r, filters, filtersActive) {
			continue
		}

		bw.Write(r.prefix1Bytes())
		bw.Write(r.prefix2Bytes())
		bw.Write(r.prefix3Bytes())
		bw.WriteString(lineBody(r, s.MaxLineSize()))
		bw.WriteByte('\n')

		flushed++
		if flushed%500 == 0 {
			if ferr := bw.Flush(); ferr != nil {
				panicLog(s.Name(), ferr)
			}
		}
	}
	if ferr := bw.Flush(); ferr != nil {
		panicLog(s.Name(), ferr)
	}
}
