package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yildizm/AIDetect/internal/controller"
	"github.com/yildizm/AIDetect/internal/detect"
)

func TestLoop_RunsPostedFunctionsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := New(func(controller.Event) {}, 4, nil)
	go func() { _ = loop.Run(ctx) }()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if err := loop.Post(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	if err := loop.Wait(waitCtx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("functions ran out of order: %v", got)
		}
	}
	if len(got) != 10 {
		t.Errorf("expected 10 calls, got %d", len(got))
	}
}

func TestLoop_GoPostsEventBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var applied []controller.Event
	var inFlight int32
	var overlapped int32

	loop := New(func(ev controller.Event) {
		if atomic.AddInt32(&inFlight, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		applied = append(applied, ev)
		atomic.AddInt32(&inFlight, -1)
	}, 0, nil)
	go func() { _ = loop.Run(ctx) }()

	for i := 0; i < 5; i++ {
		loop.Go(func() controller.Event {
			return controller.ResponseEvent{Kind: detect.KindText, StatusCode: 200}
		})
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	if err := loop.Wait(waitCtx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(applied) != 5 {
		t.Errorf("expected 5 events applied, got %d", len(applied))
	}
	if atomic.LoadInt32(&overlapped) != 0 {
		t.Error("events must be applied one at a time")
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := New(func(controller.Event) {}, 1, nil)

	done := make(chan error)
	go func() { done <- loop.Run(ctx) }()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if err := loop.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Post() on a stopped loop = %v, want ErrStopped", err)
	}
}
