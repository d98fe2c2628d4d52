package alogger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Sink ("Saver" in the reference implementation) owns a destination, a
// severity threshold, a filter chain, a line-length cap, and the flush
// contract every concrete sink implements.
type Sink interface {
	Name() string
	Active() bool
	SetActive(bool)
	Level() Level
	SetLevel(Level)
	MaxLineSize() int
	SetMaxLineSize(int)
	SetFiltersActive(bool)
	AddFilter(f *Filter)
	RemoveFilter(name string)
	ClearFilters()
	Filters() []*Filter

	// Flush writes the subset of batch this sink accepts. batch is
	// non-owning: the worker retains ownership and reuses it for every
	// other sink.
	Flush(batch []*Record)
}

// baseSink implements everything about a Sink except Flush; concrete
// sinks embed it and supply their own Flush.
type baseSink struct {
	name        string
	active      atomic.Bool
	level       atomic.Int32
	maxLineSize atomic.Int64

	mu            sync.Mutex
	filters       []*Filter
	filtersActive bool
	logger        *Logger // weak: Logger owns Sinks, never the reverse
}

func newBaseSink(name string, level Level, maxLineSize int) baseSink {
	b := baseSink{name: name, filtersActive: true}
	b.active.Store(true)
	b.level.Store(int32(level))
	b.maxLineSize.Store(int64(maxLineSize))
	return b
}

func (b *baseSink) Name() string { return b.name }

func (b *baseSink) Active() bool { return b.active.Load() }

func (b *baseSink) SetActive(v bool) {
	b.active.Store(v)
	b.notifyLogger()
}

func (b *baseSink) Level() Level { return Level(b.level.Load()) }

func (b *baseSink) SetLevel(l Level) {
	b.level.Store(int32(l))
	b.notifyLogger()
}

func (b *baseSink) MaxLineSize() int { return int(b.maxLineSize.Load()) }

func (b *baseSink) SetMaxLineSize(n int) { b.maxLineSize.Store(int64(n)) }

func (b *baseSink) SetFiltersActive(v bool) {
	b.mu.Lock()
	b.filtersActive = v
	b.mu.Unlock()
}

// AddFilter adds f to the chain in insertion order; a duplicate name
// replaces the previous filter. The filter is locked the moment it joins
// a chain.
func (b *baseSink) AddFilter(f *Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.filters {
		if existing.Name() == f.Name() {
			b.filters = append(b.filters[:i], b.filters[i+1:]...)
			break
		}
	}
	f.lock()
	b.filters = append(b.filters, f)
}

func (b *baseSink) RemoveFilter(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.filters {
		if existing.Name() == name {
			b.filters = append(b.filters[:i], b.filters[i+1:]...)
			return
		}
	}
}

func (b *baseSink) ClearFilters() {
	b.mu.Lock()
	b.filters = nil
	b.mu.Unlock()
}

// Filters returns a snapshot of the chain taken under the lock; flush
// never holds the lock across filter checks or I/O.
func (b *baseSink) Filters() []*Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Filter, len(b.filters))
	copy(out, b.filters)
	return out
}

func (b *baseSink) filtersActiveSnapshot() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filtersActive
}

func (b *baseSink) setLogger(l *Logger) {
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

func (b *baseSink) notifyLogger() {
	b.mu.Lock()
	l := b.logger
	b.mu.Unlock()
	if l != nil {
		l.recomputeLevel()
	}
}

// skipMessage runs a Record through a filter chain snapshot: the first
// Fail verdict short-circuits to "skip", a MessError short-circuits to
// "keep", and otherwise the chain's verdict is "keep" (an empty chain
// always keeps).
func skipMessage(r *Record, filters []*Filter, filtersActive bool) bool {
	if len(filters) == 0 || !filtersActive {
		return false
	}
	for _, f := range filters {
		switch f.check(r) {
		case MessError:
			return false
		case Fail:
			return true
		}
	}
	return false
}

// lineBody returns the text a sink should write for r, truncated to
// maxLineSize bytes if set. Truncation is byte-wise, which can split a
// multi-byte UTF-8 sequence — accepted as a known limitation, not fixed
// (see DESIGN.md).
func lineBody(r *Record, maxLineSize int) string {
	s := r.renderedBody()
	if maxLineSize > 0 && len(s) > maxLineSize {
		s = s[:maxLineSize]
	}
	return s
}

// panicLog is the sink-failure escape hatch: a write error never removes
// the sink or propagates to a producer, it is recorded here and the
// batch continues.
func panicLog(sinkName string, err error) {
	path := filepath.Join(os.TempDir(), "alogger.log")
	f, oerr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if oerr != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "Saver name: %s; Error: %s\n", sinkName, err)
}
