package alogger

import "os"

// SinkStderr writes to the process' stderr stream; it shares streamSink
// with SinkStdout and differs only in the destination.
type SinkStderr struct {
	*streamSink
}

func NewSinkStderr(name string, level Level, shortMessages bool) *SinkStderr {
	return &SinkStderr{newStreamSink(name, level, shortMessages, os.Stderr)}
}
