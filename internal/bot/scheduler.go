package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/aichat/internal/bot/tasks"
	"github.com/edgard/aichat/internal/config"
)

// Scheduler runs the registered tasks on their configured cron schedules.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler for the tasks in taskMap.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start schedules every enabled task and starts the scheduler. Tasks that are
// unknown, disabled or have an invalid schedule are skipped.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduledCount := 0
	if s.cfg != nil {
		for taskName, taskConfig := range s.cfg.Tasks {
			if s.schedule(taskName, taskConfig) {
				scheduledCount++
			}
		}
	}
	if scheduledCount == 0 {
		s.logger.Warn("No scheduler tasks scheduled.")
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduledCount)
	return nil
}

func (s *Scheduler) schedule(taskName string, taskConfig config.TaskConfig) bool {
	if !taskConfig.Enabled {
		s.logger.Info("Skipping disabled task", "task_name", taskName)
		return false
	}

	taskFunc, exists := s.taskMap[taskName]
	if !exists {
		s.logger.Warn("Scheduled task configured but not available, skipping", "task_name", taskName)
		return false
	}

	if taskConfig.Schedule == "" {
		s.logger.Warn("Scheduled task enabled but has empty schedule, skipping", "task_name", taskName)
		return false
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(taskConfig.Schedule, true),
		gocron.NewTask(
			func(ctx context.Context, name string) {
				s.logger.Debug("Running scheduled task", "task_name", name)
				startTime := time.Now()
				if taskErr := taskFunc(ctx); taskErr != nil {
					s.logger.Error("Scheduled task failed", "task_name", name, "error", taskErr)
				}
				s.logger.Debug("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
			},
			s.ctx,
			taskName,
		),
		gocron.WithName(taskName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.Error("Failed to schedule task", "task_name", taskName, "schedule", taskConfig.Schedule, "error", err)
		return false
	}

	s.logger.Info("Scheduled task", "task_name", taskName, "schedule", taskConfig.Schedule)
	return true
}

// JobNames returns the names of the scheduled jobs, sorted.
func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	sort.Strings(names)
	return names
}

// RunNow runs the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	for _, j := range s.scheduler.Jobs() {
		if j.Name() == name {
			return j.RunNow()
		}
	}
	return fmt.Errorf("no scheduled job named %q", name)
}

// Stop cancels running tasks and shuts the scheduler down, waiting for them
// to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
