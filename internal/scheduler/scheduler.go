package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"

	"github.com/robfig/cron/v3"
)

// Cycler runs one collection cycle.
type Cycler interface {
	RunCycle(ctx context.Context, trigger model.TriggerType) (*collector.CycleReport, error)
}

// Poller fetches inbound chat messages after a cursor.
type Poller interface {
	PollUpdates(ctx context.Context, cursor int64) ([]model.InboundMessage, error)
}

// Options configures the two trigger loops.
type Options struct {
	Interval      time.Duration
	PollInterval  time.Duration
	StatusCommand string
}

type request struct {
	trigger model.TriggerType
	done    chan struct{} // nil for timed triggers
}

// Scheduler owns the timed loop, the command loop and the single executor that
// runs cycles one at a time.
type Scheduler struct {
	Cron    *cron.Cron
	Cycler  Cycler
	Poller  Poller
	Metrics *metrics.Metrics

	opts     Options
	requests chan request
	cursor   atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new Scheduler. poller may be nil to disable commands.
func NewScheduler(cycler Cycler, poller Poller, m *metrics.Metrics, opts Options) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default())))),
		Cycler:   cycler,
		Poller:   poller,
		Metrics:  m,
		opts:     opts,
		requests: make(chan request, 1),
	}
}

// Start queues a startup cycle and launches both loops. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.opts.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", s.opts.Interval)
	}
	if _, err := s.Cron.AddFunc("@every "+s.opts.Interval.String(), func() {
		s.enqueueTimed(model.TriggerScheduled)
	}); err != nil {
		return fmt.Errorf("register timed trigger: %w", err)
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.executor(ctx)

	if s.Poller != nil {
		s.wg.Add(1)
		go s.commandLoop(ctx)
	}

	s.enqueueTimed(model.TriggerStartup)
	s.Cron.Start()
	log.Printf("[INFO] scheduler started (interval=%v, poll=%v)", s.opts.Interval, s.opts.PollInterval)
	return nil
}

// Stop halts both loops and waits for an in-flight cycle to finish. Queued cycles that
// have not started are dropped.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// Cursor returns the highest update id seen by the command loop.
func (s *Scheduler) Cursor() int64 {
	return s.cursor.Load()
}

// enqueueTimed never blocks; a trigger arriving while another is queued is dropped.
func (s *Scheduler) enqueueTimed(trigger model.TriggerType) {
	select {
	case s.requests <- request{trigger: trigger}:
	default:
		log.Printf("[INFO] %s trigger coalesced with queued cycle", trigger)
		s.Metrics.Coalesced()
	}
}

func (s *Scheduler) executor(ctx context.Context) {
	defer s.wg.Done()
	// Cycles outlive shutdown so a report is never cut off halfway.
	cycleCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.requests:
			s.execute(cycleCtx, req)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, req request) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] %s cycle panicked: %v", req.trigger, r)
		}
		if req.done != nil {
			close(req.done)
		}
	}()
	if _, err := s.Cycler.RunCycle(ctx, req.trigger); err != nil {
		log.Printf("[ERROR] %s cycle: %v", req.trigger, err)
	}
}

func (s *Scheduler) commandLoop(ctx context.Context) {
	defer s.wg.Done()
	log.Printf("[INFO] listening for %q", s.opts.StatusCommand)
	for {
		msgs, err := s.Poller.PollUpdates(ctx, s.cursor.Load())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] poll updates: %v", err)
			s.Metrics.NotifyFailed("poll")
		}
		for _, m := range msgs {
			if m.ID > s.cursor.Load() {
				s.cursor.Store(m.ID)
			}
			if !s.isStatusCommand(m.Text) {
				continue
			}
			log.Printf("[INFO] status command from chat %d", m.ChatID)
			s.Metrics.CommandReceived()
			if !s.runCommand(ctx) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.opts.PollInterval):
		}
	}
}

func (s *Scheduler) isStatusCommand(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), s.opts.StatusCommand)
}

// runCommand queues a command cycle and waits for it. It reports false when ctx ends
// first.
func (s *Scheduler) runCommand(ctx context.Context) bool {
	req := request{trigger: model.TriggerCommand, done: make(chan struct{})}
	select {
	case s.requests <- req:
	case <-ctx.Done():
		return false
	}
	select {
	case <-req.done:
		return true
	case <-ctx.Done():
		return false
	}
}
