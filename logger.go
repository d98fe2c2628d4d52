// logger.go - asynchronous logging engine: ingress queue, worker, sinks.
//
// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alogger

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultFlushTimeMS = 300
	defaultFlushSize   = 1000
)

// Logger is the asynchronous logging engine: one ingress queue, one
// background worker, and the sinks it dispatches formatted records to.
// The zero value is not usable; construct with New.
type Logger struct {
	mu     sync.Mutex
	stdout *SinkStdout
	stderr *SinkStderr
	custom []Sink

	q queue

	currentLevel atomic.Int32
	enabled      atomic.Bool

	flushTimeMS atomic.Int64
	flushSize   atomic.Int64
	flushLoop   atomic.Int32

	stopping atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New starts a Logger's worker goroutine and returns it ready to accept
// sinks and emit records. Most programs use Default() instead; New is
// for tests and for processes that genuinely need isolated loggers.
func New() *Logger {
	l := &Logger{done: make(chan struct{})}
	l.enabled.Store(true)
	l.flushTimeMS.Store(defaultFlushTimeMS)
	l.flushSize.Store(defaultFlushSize)
	go l.run()
	return l
}

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
)

// Default returns the process-wide Logger, constructing it on first use.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

func (l *Logger) CurrentLevel() Level { return Level(l.currentLevel.Load()) }

func (l *Logger) Enabled() bool { return l.enabled.Load() }
func (l *Logger) On()           { l.enabled.Store(true) }
func (l *Logger) Off()          { l.enabled.Store(false) }

func (l *Logger) FlushTime() time.Duration {
	return time.Duration(l.flushTimeMS.Load()) * time.Millisecond
}
func (l *Logger) SetFlushTime(d time.Duration) { l.flushTimeMS.Store(d.Milliseconds()) }

func (l *Logger) FlushSize() int     { return int(l.flushSize.Load()) }
func (l *Logger) SetFlushSize(n int) { l.flushSize.Store(int64(n)) }

// Flush requests at least loops additional custom-sink flush cycles
// ahead of the normal time/size cadence. It accelerates the worker; it
// does not block until the flush has happened — pair with WaitingFlush
// for that.
func (l *Logger) Flush(loops int) {
	if loops < 1 {
		loops = 1
	}
	l.flushLoop.Store(int32(loops))
}

// WaitingFlush blocks until a pending Flush request has been drained by
// the worker. Callers must not hold a sink's own lock while waiting —
// the worker needs to acquire sink state to make progress.
func (l *Logger) WaitingFlush() {
	for l.flushLoop.Load() > 0 {
		time.Sleep(time.Millisecond)
	}
}

// Stop signals the worker to perform one final pass and exit, then
// waits for it. Safe to call more than once; only the first call acts.
func (l *Logger) Stop() {
	l.stopOnce.Do(func() {
		l.stopping.Store(true)
		<-l.done
	})
}

func (l *Logger) AddSinkStdout(s *SinkStdout) {
	l.mu.Lock()
	l.stdout = s
	l.mu.Unlock()
	s.setLogger(l)
	l.recomputeLevel()
}

func (l *Logger) RemoveSinkStdout() {
	l.mu.Lock()
	l.stdout = nil
	l.mu.Unlock()
	l.recomputeLevel()
}

func (l *Logger) AddSinkStderr(s *SinkStderr) {
	l.mu.Lock()
	l.stderr = s
	l.mu.Unlock()
	s.setLogger(l)
	l.recomputeLevel()
}

func (l *Logger) RemoveSinkStderr() {
	l.mu.Lock()
	l.stderr = nil
	l.mu.Unlock()
	l.recomputeLevel()
}

// AddSink attaches a custom sink; a name collision replaces the
// previous holder of that name.
func (l *Logger) AddSink(s Sink) {
	l.mu.Lock()
	replaced := false
	for i, existing := range l.custom {
		if existing.Name() == s.Name() {
			l.custom[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		l.custom = append(l.custom, s)
	}
	l.mu.Unlock()
	setSinkLogger(s, l)
	l.recomputeLevel()
}

func (l *Logger) RemoveSink(name string) {
	l.mu.Lock()
	for i, existing := range l.custom {
		if existing.Name() == name {
			l.custom = append(l.custom[:i], l.custom[i+1:]...)
			break
		}
	}
	l.mu.Unlock()
	l.recomputeLevel()
}

func (l *Logger) FindSink(name string) Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.custom {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// ClearSinks drops every custom sink; clearStd additionally drops the
// stdout/stderr roles.
func (l *Logger) ClearSinks(clearStd bool) {
	l.mu.Lock()
	l.custom = nil
	if clearStd {
		l.stdout = nil
		l.stderr = nil
	}
	l.mu.Unlock()
	l.recomputeLevel()
}

// Sinks returns a snapshot of every sink currently attached, stdout and
// stderr included when set.
func (l *Logger) Sinks() []Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Sink, 0, len(l.custom)+2)
	if l.stdout != nil {
		out = append(out, l.stdout)
	}
	if l.stderr != nil {
		out = append(out, l.stderr)
	}
	out = append(out, l.custom...)
	return out
}

// recomputeLevel recomputes the aggregate max-active-sink level, called
// whenever a sink is added, removed, or has its level/active state
// changed. Producer-side calls short-circuit against this value instead
// of testing every sink per emitted record.
func (l *Logger) recomputeLevel() {
	l.mu.Lock()
	max := None
	if l.stdout != nil && l.stdout.Active() && l.stdout.Level() > max {
		max = l.stdout.Level()
	}
	if l.stderr != nil && l.stderr.Active() && l.stderr.Level() > max {
		max = l.stderr.Level()
	}
	for _, s := range l.custom {
		if s.Active() && s.Level() > max {
			max = s.Level()
		}
	}
	l.mu.Unlock()
	l.currentLevel.Store(int32(max))
}

type loggerAware interface{ setLogger(*Logger) }

func setSinkLogger(s Sink, l *Logger) {
	if la, ok := s.(loggerAware); ok {
		la.setLogger(l)
	}
}

func (l *Logger) atLevel(level Level) *Line {
	if l == nil || !l.enabled.Load() || level > l.CurrentLevel() {
		return disabledLine
	}
	file, fn, line := callerInfo(2)
	return newLine(l, level, file, fn, line, "")
}

func (l *Logger) Error() *Line   { return l.atLevel(Error) }
func (l *Logger) Warn() *Line    { return l.atLevel(Warning) }
func (l *Logger) Info() *Line    { return l.atLevel(Info) }
func (l *Logger) Verbose() *Line { return l.atLevel(Verbose) }
func (l *Logger) Debug() *Line   { return l.atLevel(Debug) }
func (l *Logger) Debug2() *Line  { return l.atLevel(Debug2) }

// enqueue hands a completed Record to the ingress queue. Error-level
// records additionally request an accelerated flush so they reach
// persistent sinks within roughly one worker cycle instead of waiting
// out the full flush cadence.
func (l *Logger) enqueue(r *Record) {
	if l.stopping.Load() || !l.enabled.Load() {
		return
	}
	l.q.push(r)
	if r.Level == Error {
		l.Flush(1)
	}
}
