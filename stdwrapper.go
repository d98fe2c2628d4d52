// stdwrapper.go - wrapper around my logger to make it compatible
// with stdlib log.Logger.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// This code is licensed under the same terms as the golang core.

package alogger

import (
	stdlog "log"
)

// Std returns a stdlib *log.Logger backed by this Logger: every write
// it receives is funneled into an Info-level emission tagged with
// module, so code that only knows an io.Writer-shaped logger still goes
// through filters and sinks instead of bypassing them.
func (l *Logger) Std(module string) *stdlog.Logger {
	return stdlog.New(&stdBridge{logger: l, module: module}, "", 0)
}

type stdBridge struct {
	logger *Logger
	module string
}

// Write satisfies io.Writer for stdlib's log.Logger. The stdlib always
// hands us one fully formatted line including its trailing newline;
// we trim that before handing the body to Msg.
func (b *stdBridge) Write(p []byte) (int, error) {
	msg := string(p)
	for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
		msg = msg[:len(msg)-1]
	}
	b.logger.Info().Module(b.module).Msg(msg)
	return len(p), nil
}

// vim: ft=go:sw=8:ts=8:noexpandtab:tw=98:
