package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePruner struct {
	before time.Time
	n      int64
	err    error
}

func (f *fakePruner) PruneProtected(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.n, f.err
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(&fakePruner{}, "not a cron", time.Hour); err == nil {
		t.Error("expected error for invalid schedule")
	}
	if _, err := New(&fakePruner{}, "0 4 * * *", 0); err == nil {
		t.Error("expected error for zero retention")
	}
}

func TestPruneOnce_Cutoff(t *testing.T) {
	p := &fakePruner{n: 3}
	s, err := New(p, "0 4 * * *", 72*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.PruneOnce(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("PruneOnce = %d, %v", n, err)
	}
	if want := now.Add(-72 * time.Hour); !p.before.Equal(want) {
		t.Errorf("cutoff = %v, want %v", p.before, want)
	}
}

func TestPruneOnce_Error(t *testing.T) {
	s, _ := New(&fakePruner{err: errors.New("db down")}, "0 4 * * *", time.Hour)
	if _, err := s.PruneOnce(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestNextRun(t *testing.T) {
	s, _ := New(&fakePruner{}, "0 4 * * *", time.Hour)
	s.Start()
	defer s.Stop()
	next := s.NextRun()
	if next.IsZero() || next.Hour() != 4 || next.Minute() != 0 {
		t.Errorf("NextRun = %v, want 04:00", next)
	}
}
