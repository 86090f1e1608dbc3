package fsdemo

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/systour/systour/metrics"
)

// session carries the state shared by the activities of one run.
type session struct {
	ctx context.Context
	env *Env
	con *console
	wg  sync.WaitGroup
}

func newSession(ctx context.Context, env *Env) (*session, error) {
	con, err := newConsole(env.Out, env.logger())
	if err != nil {
		return nil, err
	}
	return &session{ctx: ctx, env: env, con: con}, nil
}

// run executes the synchronous body of a, then starts its callbacks.
func (s *session) run(a Activity) {
	t := &task{session: s, name: a.Name, start: time.Now()}
	a.run(t)
	t.dispatch()
}

// wait blocks until every started callback has finished.
func (s *session) wait() {
	s.wg.Wait()
}

func (s *session) close() {
	s.wait()
	s.con.close()
}

// task is a single activity execution. Callbacks registered with later run
// in their own goroutines once the synchronous body has returned, so their
// output always follows it.
type task struct {
	*session
	name   string
	start  time.Time
	failed atomic.Bool

	mu         sync.Mutex
	pending    []func(*task)
	dispatched bool
	callbacks  sync.WaitGroup
}

func (t *task) write(s string) {
	t.con.write(s)
}

func (t *task) println(a ...any) {
	t.con.println(a...)
}

func (t *task) printf(format string, a ...any) {
	t.con.printf(format, a...)
}

// fail prints "label: message" and marks the activity as failed.
func (t *task) fail(label string, err error) {
	t.failed.Store(true)
	t.con.println(label+":", err.Error())
}

// later registers a callback. Registered after dispatch, it starts at once.
func (t *task) later(fn func(*task)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dispatched {
		t.goCallback(fn)
		return
	}
	t.pending = append(t.pending, fn)
}

func (t *task) goCallback(fn func(*task)) {
	t.callbacks.Add(1)
	go func() {
		defer t.callbacks.Done()
		fn(t)
	}()
}

func (t *task) dispatch() {
	t.mu.Lock()
	t.dispatched = true
	for _, fn := range t.pending {
		t.goCallback(fn)
	}
	t.pending = nil
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.callbacks.Wait()

		status := metrics.ActivityOk
		if t.failed.Load() {
			status = metrics.ActivityFailed
		}
		metrics.ObserveActivity(t.name, status, time.Since(t.start))
		t.env.logger().Debug("Activity finished",
			"activity", t.name, "status", status, "took", time.Since(t.start))
	}()
}
