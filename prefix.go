package alogger

import "time"

// prefixFiller formats prefix1/2/3 for a run of Records. It is not safe
// for concurrent use: the worker loop hands each helper goroutine its own
// instance so the prefix1 per-second cache stays valid across the
// partition it owns, matching the reference implementation's "each helper
// uses the caching trick" note.
type prefixFiller struct {
	lastSecond int64
	cached     [30]byte
	cachedLen  int
	scratch    [512]byte
}

// appendInt is a cheap, allocation-free integer-to-decimal-ASCII
// converter. A negative wid means "no zero padding"; a positive wid
// zero-pads to that many digits.
func appendInt(out []byte, i int, wid int) []byte {
	u := uint(i)
	var b [32]byte

	bp := len(b) - 1
	for u >= 10 || wid > 1 {
		wid--
		q := u / 10
		b[bp] = byte('0' + u - q*10)
		bp--
		u = q
	}
	b[bp] = byte('0' + u)
	return append(out, b[bp:]...)
}

// fill1 writes the DD.MM.YYYY HH:MM:SS prefix, reusing the cached
// rendering for as long as successive records share the same whole
// second. This is the hot path: a burst can share one second across
// hundreds of thousands of records.
func (f *prefixFiller) fill1(r *Record) {
	if f.cachedLen == 0 || r.Seconds != f.lastSecond {
		f.lastSecond = r.Seconds
		t := time.Unix(r.Seconds, 0)

		buf := f.cached[:0]
		buf = appendInt(buf, t.Day(), 2)
		buf = append(buf, '.')
		buf = appendInt(buf, int(t.Month()), 2)
		buf = append(buf, '.')
		buf = appendInt(buf, t.Year(), 4)
		buf = append(buf, ' ')
		buf = appendInt(buf, t.Hour(), 2)
		buf = append(buf, ':')
		buf = appendInt(buf, t.Minute(), 2)
		buf = append(buf, ':')
		buf = appendInt(buf, t.Second(), 2)

		f.cachedLen = len(buf)
	}
	r.p1len = copy(r.prefix1[:], f.cached[:f.cachedLen])
}

// fill2 writes the fixed 7-character microsecond suffix (".NNNNNN").
// Callers only invoke this when the logger's highest active sink level is
// Debug2; otherwise the field is left empty.
func (f *prefixFiller) fill2(r *Record) {
	var scratch [8]byte
	buf := scratch[:0]
	buf = append(buf, '.')
	buf = appendInt(buf, int(r.Nanoseconds/1000), 6)
	r.p2len = copy(r.prefix2[:], buf)
}

func levelTokenFor(l Level) string {
	if s, ok := levelToken[l]; ok {
		return s
	}
	return "UNKNOWN "
}

// fill3 writes " LEVEL LWP<tid> [file:line function] module " (degrading
// gracefully when file or module are absent). Truncation, when the
// record's names overflow the fixed buffer, always leaves a well-formed
// "] " suffix rather than a dangling "[".
func (f *prefixFiller) fill3(r *Record) {
	buf := f.scratch[:0]
	buf = append(buf, ' ')
	buf = append(buf, levelTokenFor(r.Level)...)
	buf = append(buf, "LWP"...)
	buf = appendInt(buf, r.ThreadID, -1)

	hasFile := r.File != nil && *r.File != ""
	hasModule := r.Module != nil && *r.Module != ""

	switch {
	case hasFile:
		buf = append(buf, " ["...)
		buf = append(buf, *r.File...)
		buf = append(buf, ':')
		buf = appendInt(buf, r.Line, -1)
		if r.Function != nil && *r.Function != "" {
			buf = append(buf, ' ')
			buf = append(buf, *r.Function...)
		}
		buf = append(buf, "] "...)
		if hasModule {
			buf = append(buf, *r.Module...)
			buf = append(buf, ' ')
		}
	case hasModule:
		buf = append(buf, " ["...)
		buf = append(buf, *r.Module...)
		buf = append(buf, "] "...)
	default:
		buf = append(buf, ' ')
	}

	n := copy(r.prefix3[:], buf)
	if n < len(buf) && n >= 2 {
		r.prefix3[n-2] = ']'
		r.prefix3[n-1] = ' '
	}
	r.p3len = n
}

// fillAll computes prefix1 (always), prefix2 (only at Debug2), and
// prefix3 (always) for one record.
func (f *prefixFiller) fillAll(r *Record, maxActive Level) {
	f.fill1(r)
	if maxActive == Debug2 {
		f.fill2(r)
	} else {
		r.p2len = 0
	}
	f.fill3(r)
}
