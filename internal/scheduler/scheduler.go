package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	"github.com/vantora-labs/tenant-admin-api/pkg/config"
)

// systemActor runs scheduled governance jobs with full privileges.
var systemActor = &models.JWTClaims{
	UserID: "system",
	Role:   models.RoleSuperAdmin,
	Email:  "system@vantora.io",
}

// Scheduler runs the background governance jobs: resuming interrupted
// merges after a crash and mailing the periodic review report.
type Scheduler struct {
	cron          *cron.Cron
	orgTypes      *service.OrgTypeService
	notifications *service.NotificationService
	logger        *zap.Logger
	jobTimeout    time.Duration
}

func New(cfg config.SchedulerConfig, orgTypes *service.OrgTypeService, notifications *service.NotificationService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		orgTypes:      orgTypes,
		notifications: notifications,
		logger:        logger,
		jobTimeout:    5 * time.Minute,
	}

	if _, err := s.cron.AddFunc(cfg.MergeRepairSpec, s.repairMerges); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.ReviewReportSpec, s.sendReviewReport); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) repairMerges() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	resumed, err := s.orgTypes.ResumeInterruptedMerges(ctx)
	if err != nil {
		s.logger.Error("merge repair job failed", zap.Error(err))
		return
	}
	if resumed > 0 {
		s.logger.Info("resumed interrupted merges", zap.Int("count", resumed))
	}
}

func (s *Scheduler) sendReviewReport() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	items, err := s.orgTypes.ReviewReport(ctx, systemActor)
	if err != nil {
		s.logger.Error("review report job failed", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}
	s.notifications.ReviewReport(items)
	s.logger.Info("review report queued", zap.Int("items", len(items)))
}
