//go:build unix

package alogger

import (
	"log/syslog"
	"time"
)

// SinkSyslog maps internal levels to the syslog severity scale and emits
// prefix3 + body as a single message per Record (no prefix1/prefix2 —
// syslog already timestamps entries).
type SinkSyslog struct {
	baseSink
	w *syslog.Writer
}

func NewSinkSyslog(name, ident string, level Level) (*SinkSyslog, error) {
	w, err := syslog.New(syslog.LOG_LOCAL5|syslog.LOG_NOTICE, ident)
	if err != nil {
		return nil, err
	}
	return &SinkSyslog{baseSink: newBaseSink(name, level, 0), w: w}, nil
}

func syslogWrite(w *syslog.Writer, level Level, msg string) error {
	switch level {
	case Error:
		return w.Err(msg)
	case Warning:
		return w.Warning(msg)
	case Info:
		return w.Notice(msg)
	case Verbose:
		return w.Info(msg)
	case Debug, Debug2:
		return w.Debug(msg)
	default:
		return w.Err(msg)
	}
}

func (s *SinkSyslog) Flush(batch []*Record) {
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

	for _, r := range batch {
		if r.Level > level {
			continue
		}
		if skipMessage(r, filters, filtersActive) {
			continue
		}

		msg := string(r.prefix3Bytes()) + lineBody(r, s.MaxLineSize())
		if err := syslogWrite(s.w, r.Level, msg); err != nil {
			panicLog(s.Name(), err)
		}
	}
}
