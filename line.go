package alogger

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Line is the chainable builder returned by each of Logger's six
// level-specific entry points. It captures caller location eagerly, at
// the point the level check already passed, and only builds a Record
// once a terminal Msg/Msgf/Send call actually emits one. Str/Int/Err
// stream content into an internal buffer as the call site builds up a
// message piecewise; Msg/Msgf/Send all drain that buffer into the final
// body.
type Line struct {
	logger *Logger
	level  Level
	file   string
	fn     string
	line   int
	module string
	side   Redactor
	buf    strings.Builder
}

// disabledLine is returned whenever a level check fails or the logger is
// off. Every method on it is a no-op, so a statement that will never be
// emitted costs one pointer comparison, not a Record allocation.
var disabledLine = &Line{}

func newLine(l *Logger, level Level, file, fn string, line int, module string) *Line {
	return &Line{logger: l, level: level, file: file, fn: fn, line: line, module: module}
}

// Module overrides the module tag attached to the emitted Record.
func (ln *Line) Module(name string) *Line {
	if ln == disabledLine {
		return ln
	}
	ln.module = name
	return ln
}

// Redact attaches a side-channel redactor consulted by sinks when they
// render this Record's body.
func (ln *Line) Redact(r Redactor) *Line {
	if ln == disabledLine {
		return ln
	}
	ln.side = r
	return ln
}

// Str streams s into the line's internal buffer. A no-op on the
// disabled sentinel, so a chain of streaming calls on a filtered-out
// line costs nothing beyond the initial pointer comparison.
func (ln *Line) Str(s string) *Line {
	if ln == disabledLine {
		return ln
	}
	ln.buf.WriteString(s)
	return ln
}

// Int streams i's decimal representation into the line's buffer.
func (ln *Line) Int(i int) *Line {
	if ln == disabledLine {
		return ln
	}
	ln.buf.WriteString(strconv.Itoa(i))
	return ln
}

// Err streams err's message into the line's buffer; a nil err is a
// no-op, not a literal "<nil>".
func (ln *Line) Err(err error) *Line {
	if ln == disabledLine || err == nil {
		return ln
	}
	ln.buf.WriteString(err.Error())
	return ln
}

// Msg appends body to whatever the streaming operators already wrote,
// then finalizes and enqueues the line.
func (ln *Line) Msg(body string) {
	if ln == disabledLine || ln.logger == nil {
		return
	}
	ln.buf.WriteString(body)
	ln.send(ln.buf.String())
}

// Msgf appends a formatted body to whatever the streaming operators
// already wrote, then finalizes and enqueues the line.
func (ln *Line) Msgf(format string, args ...interface{}) {
	if ln == disabledLine || ln.logger == nil {
		return
	}
	fmt.Fprintf(&ln.buf, format, args...)
	ln.send(ln.buf.String())
}

// Send finalizes and enqueues the line using only what the streaming
// operators wrote; useful for bare markers with no final literal body.
func (ln *Line) Send() {
	if ln == disabledLine || ln.logger == nil {
		return
	}
	ln.send(ln.buf.String())
}

func (ln *Line) send(body string) {
	now := time.Now()
	r := &Record{
		Level:       ln.level,
		Body:        body,
		Seconds:     now.Unix(),
		Nanoseconds: int64(now.Nanosecond()),
		ThreadID:    threadID(),
		Line:        ln.line,
		File:        internFile(ln.file),
		Function:    internFunc(ln.fn),
		Side:        ln.side,
	}
	if ln.module != "" {
		m := ln.module
		r.Module = &m
	}
	ln.logger.enqueue(r)
}

// callerInfo walks skip frames up from its own caller and returns the
// short file name, function name, and line number.
func callerInfo(skip int) (file string, fn string, line int) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", "", 0
	}
	if f := runtime.FuncForPC(pc); f != nil {
		fn = shortFuncName(f.Name())
	}
	file = shortFileName(file)
	return file, fn, line
}

func shortFileName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func shortFuncName(full string) string {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == '.' {
			return full[i+1:]
		}
	}
	return full
}
