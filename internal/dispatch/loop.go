package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/yildizm/AIDetect/internal/controller"
	"github.com/yildizm/AIDetect/internal/logger"
)

// ErrStopped is returned when posting to a loop that has exited
var ErrStopped = errors.New("dispatch loop stopped")

// Loop runs posted functions one at a time on the goroutine that calls Run.
// Controller tasks run on their own goroutines and their events are posted
// back, so the controller only ever sees one event at a time.
type Loop struct {
	queue   chan func()
	apply   func(controller.Event)
	pending sync.WaitGroup
	stopped chan struct{}
	once    sync.Once
	log     *logger.Logger
}

// New creates a loop that hands completed task events to apply
func New(apply func(controller.Event), buffer int, log *logger.Logger) *Loop {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Loop{
		queue:   make(chan func(), buffer),
		apply:   apply,
		stopped: make(chan struct{}),
		log:     log.WithComponent("dispatch"),
	}
}

// Run processes posted functions until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })

	for {
		select {
		case fn := <-l.queue:
			fn()
			l.pending.Done()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Post queues fn to run on the loop goroutine
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopped:
		return ErrStopped
	default:
	}

	l.pending.Add(1)
	select {
	case l.queue <- fn:
		return nil
	case <-l.stopped:
		l.pending.Done()
		return ErrStopped
	}
}

// Go runs task on a new goroutine and posts its event back to the loop.
// There is no deduplication: every call is an independent submission.
func (l *Loop) Go(task controller.Task) {
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		ev := task()
		if err := l.Post(func() { l.apply(ev) }); err != nil {
			l.log.Debug("dropping event after shutdown: %T", ev)
		}
	}()
}

// Wait blocks until every posted function and running task has finished.
// Callers must not Post from other goroutines concurrently with Wait while
// the loop is otherwise idle.
func (l *Loop) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
