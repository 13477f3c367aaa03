package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker runs a long lived loop until ctx is canceled.
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives onWork in a tight loop. A pass that returns an
// error, including an empty-queue sentinel, backs the next pass off
// to ErrDelay.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick run ticks until ctx is canceled
func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onWork(ctx); err == nil {
				dur = w.delay()
			} else {
				dur = w.errDelay()
			}
		}
	}
}

func (w *TickWorker) delay() time.Duration {
	if w.Delay > 0 {
		return w.Delay
	}
	return 100 * time.Millisecond
}

func (w *TickWorker) errDelay() time.Duration {
	if w.ErrDelay > 0 {
		return w.ErrDelay
	}
	return 500 * time.Millisecond
}

// BaseJob a cron driven job. A trigger that fires while the previous
// run is still going is skipped.
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  func() error
	running int32
}

// Run one trigger
func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	job.OnWork()
}

// StartUntil run the schedule until ctx is canceled
func (job *BaseJob) StartUntil(ctx context.Context) error {
	job.Cron.Start()
	<-ctx.Done()
	job.Cron.Stop()
	return ctx.Err()
}
