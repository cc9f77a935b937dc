// Package sched provides a cooperative timer and frame scheduler for hosts
// that drive the game from a single goroutine.
package sched

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

type interval struct {
	fn     func()
	period time.Duration
	due    time.Time
}

type frame struct {
	id Handle
	fn func()
}

// Loop holds interval and frame callbacks until the host calls RunDue.
// It is not safe for concurrent use; the host's loop goroutine owns it.
type Loop struct {
	clock     Clock
	lastID    Handle
	intervals map[Handle]*interval
	order     []Handle // interval schedule order
	frames    []frame
	running   []frame // frames still to fire in the current RunDue
}

// NewLoop creates a scheduler whose interval deadlines are measured from
// clock. A nil clock means SystemClock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock:     clock,
		intervals: make(map[Handle]*interval),
	}
}

func (l *Loop) nextID() Handle {
	l.lastID++
	return l.lastID
}

// ScheduleInterval runs fn once every period, first one period from now.
// A non-positive period is treated as one millisecond.
func (l *Loop) ScheduleInterval(fn func(), period time.Duration) Handle {
	if period <= 0 {
		period = time.Millisecond
	}
	id := l.nextID()
	l.intervals[id] = &interval{
		fn:     fn,
		period: period,
		due:    l.clock.Now().Add(period),
	}
	l.order = append(l.order, id)
	return id
}

// CancelInterval stops an interval. Unknown or already cancelled handles
// are ignored.
func (l *Loop) CancelInterval(h Handle) {
	if _, ok := l.intervals[h]; !ok {
		return
	}
	delete(l.intervals, h)
	for i, id := range l.order {
		if id == h {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// ScheduleFrame runs fn once on the next RunDue.
func (l *Loop) ScheduleFrame(fn func()) Handle {
	id := l.nextID()
	l.frames = append(l.frames, frame{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame callback. Unknown, fired or already
// cancelled handles are ignored.
func (l *Loop) CancelFrame(h Handle) {
	l.frames = removeFrame(l.frames, h)
	l.running = removeFrame(l.running, h)
}

func removeFrame(frames []frame, h Handle) []frame {
	for i, f := range frames {
		if f.id == h {
			return append(frames[:i], frames[i+1:]...)
		}
	}
	return frames
}

// RunDue fires every interval whose deadline is at or before now, then
// every frame callback that was pending when RunDue was called. An interval
// that fell several periods behind fires once per missed period, in order.
// Callbacks scheduled while running wait for the next call; callbacks
// cancelled while running do not fire.
func (l *Loop) RunDue(now time.Time) {
	for {
		iv := l.earliestDue(now)
		if iv == nil {
			break
		}
		iv.due = iv.due.Add(iv.period)
		iv.fn()
	}

	l.running = l.frames
	l.frames = nil
	for len(l.running) > 0 {
		f := l.running[0]
		l.running = l.running[1:]
		f.fn()
	}
}

// earliestDue returns the due interval with the oldest deadline, preferring
// schedule order on ties.
func (l *Loop) earliestDue(now time.Time) *interval {
	var best *interval
	for _, id := range l.order {
		iv := l.intervals[id]
		if iv.due.After(now) {
			continue
		}
		if best == nil || iv.due.Before(best.due) {
			best = iv
		}
	}
	return best
}

// Pending reports how many intervals and frame callbacks are scheduled.
func (l *Loop) Pending() (intervals, frames int) {
	return len(l.intervals), len(l.frames)
}
