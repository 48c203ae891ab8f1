package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/courtdesk/internal/metrics"
	"github.com/robfig/cron/v3"
)

type ReservationCompleter interface {
	CompleteEndedReservations(ctx context.Context, before time.Time) (int64, error)
}

// CompletionSweeper periodically moves pending and confirmed reservations whose
// end time has passed to completed. It is the only producer of that status.
type CompletionSweeper struct {
	reservations ReservationCompleter
	logger       *slog.Logger
	now          func() time.Time
	timeout      time.Duration
	cron         *cron.Cron
}

func NewCompletionSweeper(reservations ReservationCompleter, logger *slog.Logger) *CompletionSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionSweeper{
		reservations: reservations,
		logger:       logger,
		now:          time.Now,
		timeout:      30 * time.Second,
	}
}

func (s *CompletionSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.reservations.CompleteEndedReservations(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to complete ended reservations: %w", err)
	}
	if n > 0 {
		metrics.RecordReservationsCompleted(n)
	}
	return n, nil
}

// Start schedules Sweep with a cron expression such as "@every 15m". An empty schedule disables the sweeper.
func (s *CompletionSweeper) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info("completion sweeper disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		n, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("completion sweep failed", "error", err)
			return
		}
		s.logger.Info("completion sweep finished", "completed", n)
	})
	if err != nil {
		return fmt.Errorf("invalid completion sweep schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("completion sweeper started", "schedule", schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *CompletionSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
