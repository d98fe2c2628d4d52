package alogger

// Redactor is the "something" side channel: a capability a Record may
// carry that lets it rewrite its own body immediately before a sink
// writes it, without the sink needing to know why. Used for sensitive
// content redaction; a nil Redactor means the body is written verbatim.
type Redactor interface {
	CanRedact() bool
	Redact(body string) string
}
