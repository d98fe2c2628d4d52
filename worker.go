package alogger

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	idleSleep = 20 * time.Millisecond

	fanoutThreshold1 = 50000
	fanoutThreshold2 = 100000
	fanoutThreshold3 = 150000
)

// run is the worker goroutine launched once per Logger. It drains the
// ingress queue, parallelizes prefix formatting for large batches,
// dispatches stdout/stderr immediately (the low-latency path), and
// batches custom sinks behind the flush cadence. Stop() is cooperative:
// the loop always completes one additional full pass after it is
// signalled, so records already in flight still reach every sink.
func (l *Logger) run() {
	defer close(l.done)

	flushTimer := time.Now()
	var pending []*Record
	loopBreak := false

	for {
		if !l.stopping.Load() && l.q.empty() && l.flushLoop.Load() == 0 {
			time.Sleep(idleSleep)
		}

		incoming := l.q.swap()
		stopping := l.stopping.Load()

		if !stopping && len(incoming) == 0 && len(pending) == 0 {
			l.flushLoop.Store(0)
			continue
		}

		if len(incoming) > 0 {
			l.fillPrefixes(incoming)

			if l.stdout != nil {
				l.flushSink(l.stdout, incoming)
			}
			if l.stderr != nil {
				l.flushSink(l.stderr, incoming)
			}

			pending = append(pending, incoming...)
		}

		flushTimeMS := l.flushTimeMS.Load()
		flushSize := l.flushSize.Load()
		if loopBreak || l.flushLoop.Load() > 0 ||
			time.Since(flushTimer).Milliseconds() >= flushTimeMS ||
			int64(len(pending)) > flushSize {

			flushTimer = time.Now()
			if len(pending) > 0 {
				for _, s := range l.sinkSnapshotCustom() {
					l.flushSink(s, pending)
				}
			}
			if l.flushLoop.Load() > 0 {
				l.flushLoop.Add(-1)
			}
			pending = nil
		}

		if loopBreak {
			break
		}
		if l.stopping.Load() {
			loopBreak = true
		}
	}
}

func (l *Logger) sinkSnapshotCustom() []Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Sink, len(l.custom))
	copy(out, l.custom)
	return out
}

// flushSink runs one sink's Flush, converting a panic into the same
// auxiliary-file report a returned write error would get — a failure in
// one sink must never take the rest of the batch, or the worker, down
// with it.
func (l *Logger) flushSink(s Sink, batch []*Record) {
	if !s.Active() || len(batch) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			panicLog(s.Name(), fmt.Errorf("%v", r))
		}
	}()
	s.Flush(batch)
}

// fillPrefixes computes prefix1/2/3 for every record in batch, fanning
// out to helper goroutines once the batch crosses 50,000 / 100,000 /
// 150,000 records. The worker's own goroutine always handles the final
// partition. Unlike a sink failure, a panic here is a programmer error
// and is allowed to crash the worker.
func (l *Logger) fillPrefixes(batch []*Record) {
	n := len(batch)
	helpers := 0
	if n > fanoutThreshold1 {
		helpers++
	}
	if n > fanoutThreshold2 {
		helpers++
	}
	if n > fanoutThreshold3 {
		helpers++
	}

	maxActive := l.CurrentLevel()

	if helpers == 0 {
		f := &prefixFiller{}
		for i := range batch {
			f.fillAll(batch[i], maxActive)
		}
		return
	}

	step := n / (helpers + 1)
	var g errgroup.Group
	for h := 0; h < helpers; h++ {
		lo, hi := h*step, (h+1)*step
		g.Go(func() error {
			f := &prefixFiller{}
			for i := lo; i < hi; i++ {
				f.fillAll(batch[i], maxActive)
			}
			return nil
		})
	}

	f := &prefixFiller{}
	for i := helpers * step; i < n; i++ {
		f.fillAll(batch[i], maxActive)
	}
	g.Wait()
}
