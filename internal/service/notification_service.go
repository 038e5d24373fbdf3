package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/pkg/email"
	"github.com/vantora-labs/tenant-admin-api/pkg/jobs"
)

// NotificationService turns governance events into emails delivered
// through an in-memory outbox. Enqueue failures and delivery failures
// are logged, never surfaced to the triggering operation.
type NotificationService struct {
	queue       *jobs.Queue
	sender      email.Sender
	reviewInbox string
	logger      *zap.Logger
}

func NewNotificationService(sender email.Sender, reviewInbox string, workers, maxRetries int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = email.NopSender{}
	}

	s := &NotificationService{
		sender:      sender,
		reviewInbox: reviewInbox,
		logger:      logger,
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.Options{
		Workers:    workers,
		MaxRetries: maxRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the outbox workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the outbox.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// OrgTypeSubmitted notifies the governance inbox that a platform-scoped
// type awaits review.
func (s *NotificationService) OrgTypeSubmitted(orgType *models.OrganizationType, creatorEmail string) {
	if s.reviewInbox == "" {
		return
	}
	s.enqueue(email.Message{
		To:      s.reviewInbox,
		ToName:  "Governance Review",
		Subject: fmt.Sprintf("Organization type pending review: %s", orgType.Name),
		PlainBody: fmt.Sprintf(
			"A new organization type %q (code %s) was submitted by %s and awaits approval.",
			orgType.Name, orgType.Code, creatorEmail),
	})
}

// OrgTypeDecision notifies the submitter of an approval or rejection.
func (s *NotificationService) OrgTypeDecision(orgType *models.OrganizationType, creatorEmail, decision, reason string) {
	if creatorEmail == "" {
		return
	}
	body := fmt.Sprintf("Your organization type %q (code %s) was %s.", orgType.Name, orgType.Code, decision)
	if reason != "" {
		body += fmt.Sprintf(" Reason: %s", reason)
	}
	s.enqueue(email.Message{
		To:        creatorEmail,
		Subject:   fmt.Sprintf("Organization type %s: %s", decision, orgType.Name),
		PlainBody: body,
	})
}

// ReviewReport delivers the periodic review digest to the governance inbox.
func (s *NotificationService) ReviewReport(items []models.OrgTypeReviewItem) {
	if s.reviewInbox == "" || len(items) == 0 {
		return
	}
	body := fmt.Sprintf("%d organization type(s) are due for review:\n", len(items))
	for _, item := range items {
		flag := ""
		if item.PromotionEligible {
			flag = " [promotion eligible]"
		}
		body += fmt.Sprintf("- %s (code %s, %d organization(s), %d platform(s) share the code)%s\n",
			item.Type.Name, item.Type.Code, item.UsageCount, item.SiblingCodeCount, flag)
	}
	s.enqueue(email.Message{
		To:        s.reviewInbox,
		ToName:    "Governance Review",
		Subject:   "Organization type review digest",
		PlainBody: body,
	})
}

func (s *NotificationService) enqueue(msg email.Message) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "email",
		Payload: msg,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(email.Message)
	if !ok {
		s.logger.Error("dropping notification with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.sender.Send(msg)
}
