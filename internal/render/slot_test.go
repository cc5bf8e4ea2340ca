package render

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/olivier-w/wavy/internal/canvas"
)

func TestSlotRejectsStaleTicket(t *testing.T) {
	rec := canvas.NewRecorder(300, 100)
	slot := NewSlot(rec, nil)

	first := slot.Acquire(context.Background())
	second := slot.Acquire(context.Background())

	if err := first.Ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first ticket to be cancelled, got %v", err)
	}
	if err := slot.Commit(first, []float64{0.5}, DefaultOptions()); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("stale commit should not draw, got %v", rec.Ops)
	}

	if err := slot.Commit(second, []float64{0.5, -0.5}, DefaultOptions()); err != nil {
		t.Fatalf("Commit unexpected error: %v", err)
	}
	if rec.Count("Stroke") != 1 {
		t.Fatalf("expected current ticket to draw, got %v", rec.Ops)
	}
	if second.Gen != first.Gen+1 {
		t.Fatalf("expected generations to increase by one, got %d then %d", first.Gen, second.Gen)
	}
}

func TestSlotReleasedTicketCannotDraw(t *testing.T) {
	rec := canvas.NewRecorder(300, 100)
	slot := NewSlot(rec, nil)

	ticket := slot.Acquire(context.Background())
	slot.Release(ticket)

	if err := slot.Clear(ticket); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("expected no drawing, got %v", rec.Ops)
	}
}

func TestSlotClearAndInspect(t *testing.T) {
	rec := canvas.NewRecorder(300, 100)
	slot := NewSlot(rec, nil)
	ticket := slot.Acquire(context.Background())

	if err := slot.Clear(ticket); err != nil {
		t.Fatalf("Clear unexpected error: %v", err)
	}
	var seen canvas.Canvas
	err := slot.Inspect(ticket, func(c canvas.Canvas) error {
		seen = c
		return nil
	})
	if err != nil {
		t.Fatalf("Inspect unexpected error: %v", err)
	}
	if seen != canvas.Canvas(rec) || rec.Count("Clear") != 1 {
		t.Fatalf("expected one clear on the wrapped canvas, got %v", rec.Ops)
	}
}

func TestSlotConcurrentCommitsOnlyLatestWins(t *testing.T) {
	rec := canvas.NewRecorder(300, 100)
	slot := NewSlot(rec, nil)

	tickets := make([]Ticket, 8)
	for i := range tickets {
		tickets[i] = slot.Acquire(context.Background())
	}

	var wg sync.WaitGroup
	errs := make([]error, len(tickets))
	for i := range tickets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = slot.Commit(tickets[i], []float64{0.1, 0.2}, DefaultOptions())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		last := i == len(tickets)-1
		if last && err != nil {
			t.Fatalf("latest commit failed: %v", err)
		}
		if !last && !errors.Is(err, ErrStale) {
			t.Fatalf("commit %d: expected ErrStale, got %v", i, err)
		}
	}
	if rec.Count("Clear") != 1 {
		t.Fatalf("expected exactly one render, got %v", rec.Ops)
	}
}
