package archive

import (
	"context"
	"testing"
	"time"

	"aegisworld/warden/pkg/audit"
)

func TestPruner_Prune(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, e := range []audit.Entry{
		{Timestamp: stamp(10), Action: "proposed", ChangeID: "old"},
		{Timestamp: stamp(0), Action: "proposed", ChangeID: "fresh"},
	} {
		if err := s.Store(ctx, e); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	p := NewPruner(s, &RetentionConfig{RetentionDays: 7})
	deleted, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestPruner_ZeroRetentionKeepsEverything(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Store(ctx, audit.Entry{Timestamp: stamp(1000), Action: "proposed", ChangeID: "ancient"}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	p := NewPruner(s, &RetentionConfig{RetentionDays: 0, Schedule: "0 3 * * *"})
	deleted, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0 with retention disabled", deleted)
	}
}

func TestPruner_StartValidatesSchedule(t *testing.T) {
	s := newTestStorage(t)

	p := NewPruner(s, &RetentionConfig{RetentionDays: 7, Schedule: "not a cron expression"})
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want invalid schedule")
	}
}

func TestPruner_StartAndStop(t *testing.T) {
	s := newTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPruner(s, &RetentionConfig{RetentionDays: 7, Schedule: "0 3 * * *"})
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()
	// Stop is idempotent; calling it again after the context cancellation
	// path must not panic.
	time.Sleep(10 * time.Millisecond)
	p.Stop()
}

func TestPruner_EmptyScheduleIsNoOp(t *testing.T) {
	s := newTestStorage(t)

	p := NewPruner(s, &RetentionConfig{RetentionDays: 7, Schedule: ""})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() with empty schedule error = %v", err)
	}
	p.Stop()
}
