package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/logger"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

type fakeResetter struct {
	calls int
	err   error
}

func (f *fakeResetter) ResetDaily(context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestCronManager_SchedulesAtLocalMidnight(t *testing.T) {
	cm := NewCronManager(&fakeResetter{}, funnel.Offset(-3), logger.Discard())
	if err := cm.SetupJobs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm.Entries() != 1 {
		t.Fatalf("expected one job, got %d", cm.Entries())
	}

	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	next := cm.Next(now)
	if want := time.Date(2024, 5, 11, 3, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("expected next run at %s, got %s", want, next.UTC())
	}
}

func TestCronManager_ResetDistribution(t *testing.T) {
	resetter := &fakeResetter{}
	cm := NewCronManager(resetter, funnel.Offset(0), logger.Discard())

	cm.ResetDistribution()
	resetter.err = errors.New("store down")
	cm.ResetDistribution()

	if resetter.calls != 2 {
		t.Fatalf("expected two resets, got %d", resetter.calls)
	}
}

func TestCronManager_StartStop(t *testing.T) {
	cm := NewCronManager(&fakeResetter{}, funnel.Offset(0), nil)
	if err := cm.SetupJobs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cm.Start()
	cm.Stop()
}
