package backup

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ExportFunc produces a serialized backup bundle
type ExportFunc func(ctx context.Context) ([]byte, error)

// Scheduler runs periodic exports into a sink
type Scheduler struct {
	cron    *cron.Cron
	export  ExportFunc
	sink    Sink
	now     func() time.Time
	timeout time.Duration
	running int32
}

func NewScheduler(export ExportFunc, sink Sink) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{log.Logger})),
		export:  export,
		sink:    sink,
		now:     time.Now,
		timeout: 2 * time.Minute,
	}
}

// Start registers schedule (standard five field cron syntax) and starts the scheduler
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			log.Error().Err(err).Str("sink", s.sink.Describe()).Msg("scheduled backup failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	log.Info().Str("schedule", schedule).Str("sink", s.sink.Describe()).Msg("backup scheduler started")
	return nil
}

// Stop waits for a running export to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce exports a bundle and stores it, returning the file name.
// Overlapping runs are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		log.Warn().Msg("previous backup still running, skipping")
		return "", nil
	}
	defer atomic.StoreInt32(&s.running, 0)

	data, err := s.export(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export backup: %w", err)
	}
	name := FileName(s.now())
	if err := s.sink.Put(ctx, name, data); err != nil {
		return "", err
	}
	log.Info().Str("file", name).Int("bytes", len(data)).Str("sink", s.sink.Describe()).Msg("backup stored")
	return name, nil
}

// FileName is the bundle name for an export taken at t
func FileName(t time.Time) string {
	return fmt.Sprintf("metalerp_backup_%s.json", t.UTC().Format("2006-01-02T150405Z"))
}

// cronLogger routes cron's own logging through zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
