// ABOUTME: Tests for the bounded pipeline queue
// ABOUTME: Covers ordering, capacity, blocking, close and drain semantics
package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int](4)

	for i := 0; i < 4; i++ {
		if err := q.Send(i); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}
	if q.Len() != 4 {
		t.Errorf("expected len 4, got %d", q.Len())
	}

	for i := 0; i < 4; i++ {
		v, ok := q.Receive()
		if !ok || v != i {
			t.Fatalf("expected (%d, true), got (%d, %v)", i, v, ok)
		}
	}
}

func TestQueueTryEnds(t *testing.T) {
	q := NewQueue[string](2)

	if _, status := q.TryReceive(); status != Empty {
		t.Errorf("expected Empty, got %v", status)
	}

	if !q.TrySend("a") || !q.TrySend("b") {
		t.Fatal("expected sends within capacity to succeed")
	}
	if q.TrySend("c") {
		t.Error("expected send beyond capacity to fail")
	}
	if q.Len() != q.Cap() {
		t.Errorf("expected full queue, got len %d cap %d", q.Len(), q.Cap())
	}

	v, status := q.TryReceive()
	if status != Item || v != "a" {
		t.Errorf("expected (a, item), got (%q, %v)", v, status)
	}
}

func TestQueueSendBlocksWhenFull(t *testing.T) {
	const capacity = 3
	q := NewQueue[int](capacity)
	for i := 0; i < capacity; i++ {
		q.Send(i)
	}

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(capacity)
	}()

	select {
	case <-sent:
		t.Fatal("send on a full queue should block")
	case <-time.After(50 * time.Millisecond):
	}

	if v, ok := q.Receive(); !ok || v != 0 {
		t.Fatalf("expected (0, true), got (%d, %v)", v, ok)
	}

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("blocked send failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("send did not unblock after a receive")
	}

	if q.Len() > q.Cap() {
		t.Errorf("len %d exceeds cap %d", q.Len(), q.Cap())
	}
}

func TestQueueCloseDrains(t *testing.T) {
	q := NewQueue[int](4)
	q.Send(1)
	q.Send(2)
	q.Close()
	q.Close()

	if err := q.Send(3); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if q.TrySend(3) {
		t.Error("expected TrySend on closed queue to fail")
	}

	for _, want := range []int{1, 2} {
		v, ok := q.Receive()
		if !ok || v != want {
			t.Fatalf("expected (%d, true), got (%d, %v)", want, v, ok)
		}
	}

	if _, ok := q.Receive(); ok {
		t.Error("expected closed marker after drain")
	}
	if _, status := q.TryReceive(); status != Closed {
		t.Errorf("expected Closed, got %v", status)
	}
}

func TestQueueCloseWakesReceiver(t *testing.T) {
	q := NewQueue[int](1)

	got := make(chan bool, 1)
	go func() {
		_, ok := q.Receive()
		got <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-got:
		if ok {
			t.Error("expected closed marker")
		}
	case <-time.After(time.Second):
		t.Fatal("receiver not woken by close")
	}
}

func TestQueueCloseWakesSender(t *testing.T) {
	q := NewQueue[int](1)
	q.Send(0)

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(1)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sender not woken by close")
	}
}

func TestQueueConcurrentOrder(t *testing.T) {
	const total = 10000
	q := NewQueue[int](8)

	go func() {
		for i := 0; i < total; i++ {
			if err := q.Send(i); err != nil {
				return
			}
		}
		q.Close()
	}()

	next := 0
	for {
		v, ok := q.Receive()
		if !ok {
			break
		}
		if v != next {
			t.Fatalf("expected %d, got %d", next, v)
		}
		next++
	}
	if next != total {
		t.Errorf("expected %d items, got %d", total, next)
	}
}
