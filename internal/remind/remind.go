// Package remind runs the household's scheduled jobs: the morning chore
// summary and the nightly backup.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"choreboard/internal/backup"
	"choreboard/internal/model"
	"choreboard/internal/store"
)

// Summary is one day's reminder digest.
type Summary struct {
	Date     model.Date
	DueToday []model.Chore
	Overdue  []model.Chore
}

type Service struct {
	cron       *cron.Cron
	choreStore *store.ChoreStore
	backups    *backup.Manager
	logger     *slog.Logger
}

func New(loc *time.Location, cs *store.ChoreStore, backups *backup.Manager, logger *slog.Logger) *Service {
	return &Service{
		cron:       cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		choreStore: cs,
		backups:    backups,
		logger:     logger,
	}
}

// Schedule registers the daily jobs. Times are HH:MM in the service's
// location. The backup job is only registered when backups are configured.
func (s *Service) Schedule(remindAt, backupAt string) error {
	spec, err := buildDailySpec(remindAt)
	if err != nil {
		return fmt.Errorf("reminder time: %w", err)
	}
	if _, err := s.cron.AddFunc(spec, s.runSummary); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}

	if s.backups != nil && s.backups.Enabled() {
		spec, err := buildDailySpec(backupAt)
		if err != nil {
			return fmt.Errorf("backup time: %w", err)
		}
		if _, err := s.cron.AddFunc(spec, s.runBackup); err != nil {
			return fmt.Errorf("schedule backup: %w", err)
		}
	}
	return nil
}

func (s *Service) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) runSummary() {
	summary, err := s.BuildSummary(model.DateOf(time.Now()))
	if err != nil {
		s.logger.Error("build reminder summary", "error", err)
		return
	}
	s.logger.Info("chore reminder",
		"date", summary.Date.String(),
		"due_today", len(summary.DueToday),
		"overdue", len(summary.Overdue))
}

func (s *Service) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if _, err := s.backups.Run(ctx); err != nil {
		s.logger.Error("nightly backup failed", "error", err)
	}
}

// BuildSummary collects the chores due on the given day and the live
// chores that slipped past it. Completed chores never appear.
func (s *Service) BuildSummary(today model.Date) (Summary, error) {
	chores, err := s.choreStore.List()
	if err != nil {
		return Summary{}, fmt.Errorf("list chores: %w", err)
	}

	summary := Summary{Date: today}
	for _, chore := range chores {
		if chore.Status == model.StatusCompleted {
			continue
		}
		switch {
		case chore.DueDate.Equal(today):
			summary.DueToday = append(summary.DueToday, chore)
		case chore.DueDate.Before(today):
			summary.Overdue = append(summary.Overdue, chore)
		}
	}
	return summary, nil
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
