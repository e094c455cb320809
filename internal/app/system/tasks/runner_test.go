package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunner_RunsOnInterval(t *testing.T) {
	var n atomic.Int32
	r := NewRunner(zap.NewNop(), Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			n.Add(1)
			return nil
		},
	})
	r.Start()
	time.Sleep(40 * time.Millisecond)
	r.Stop()

	got := n.Load()
	if got < 2 {
		t.Errorf("job ran %d times, want at least 2", got)
	}

	time.Sleep(20 * time.Millisecond)
	if n.Load() != got {
		t.Error("job kept running after Stop")
	}
}

func TestRunner_StopIsIdempotent(t *testing.T) {
	r := NewRunner(zap.NewNop())
	r.Start()
	r.Stop()
	r.Stop()
}

func TestRunner_RunOnce(t *testing.T) {
	var order []string
	r := NewRunner(zap.NewNop(),
		Job{Name: "a", Interval: time.Hour, Run: func(context.Context) error {
			order = append(order, "a")
			return errors.New("boom")
		}},
		Job{Name: "b", Interval: time.Hour, Run: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("job context has no deadline")
			}
			order = append(order, "b")
			return nil
		}},
	)
	r.RunOnce(context.Background())

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}
