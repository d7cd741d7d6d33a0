// Package scheduler выполняет периодическое обслуживание: удаление
// устаревших пометок защищенных сообщений.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Pruner удаляет пометки старше before.
type Pruner interface {
	PruneProtected(ctx context.Context, before time.Time) (int64, error)
}

type Scheduler struct {
	cron      *cron.Cron
	pruner    Pruner
	retention time.Duration
	now       func() time.Time
}

// New создает планировщик. schedule - cron-выражение из 5 полей.
func New(pruner Pruner, schedule string, retention time.Duration) (*Scheduler, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("scheduler: retention must be positive, got %v", retention)
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithParser(cronParser)),
		pruner:    pruner,
		retention: retention,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.pruneJob); err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start запускает cron в собственной горутине.
func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.Info("Планировщик обслуживания запущен")
}

// Stop останавливает cron и ждет завершения текущих задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// NextRun - время следующего запуска.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) pruneJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.PruneOnce(ctx); err != nil {
		logrus.WithError(err).Warn("Очистка защищенных сообщений не выполнена")
	}
}

// PruneOnce удаляет пометки старше retention.
func (s *Scheduler) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.pruner.PruneProtected(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"removed": n, "cutoff": cutoff.Format(time.RFC3339)}).Info("Устаревшие пометки защищенных сообщений удалены")
	return n, nil
}
