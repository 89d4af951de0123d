package reminder

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/features/approval"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/document"
	"go-procure/internal/features/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService periodically nudges the role sitting on the next rung of
// any document that has been pending too long.
type ReminderService interface {
	InitializeScheduler() error
	StopScheduler() error
	// Sweep runs one pass and returns the number of reminders sent.
	Sweep(ctx context.Context) (int, error)
}

type ReminderServiceImpl struct {
	DocumentRepo document.DocumentRepository
	QrResolver   approval.QrResolver
	Notifier     notification.NotificationService
	AuditService audit.AuditService
	Config       *config.Config
	Logger       *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(
	documentRepo document.DocumentRepository,
	qrResolver approval.QrResolver,
	notifier notification.NotificationService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) ReminderService {
	return &ReminderServiceImpl{
		DocumentRepo: documentRepo,
		QrResolver:   qrResolver,
		Notifier:     notifier,
		AuditService: auditService,
		Config:       cfg,
		Logger:       logger,
	}
}

func (s *ReminderServiceImpl) InitializeScheduler() error {
	if _, err := cron.ParseStandard(s.Config.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.Config.ReminderSchedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.ReminderSchedule, func() {
		ctx := context.Background()
		if _, err := s.Sweep(ctx); err != nil {
			s.Logger.Error("reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("reminder scheduler started", zap.String("schedule", s.Config.ReminderSchedule))
	return nil
}

func (s *ReminderServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *ReminderServiceImpl) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.Config.ReminderMaxAgeHours) * time.Hour)
	docs, err := s.DocumentRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, doc := range docs {
		if doc.QrText == "" {
			continue
		}
		info, err := s.QrResolver.ResolveGateByQr(ctx, doc.QrText)
		if err != nil || !info.HasPendingGate || info.RoleName == "" {
			continue
		}

		age := time.Since(doc.CreatedAt).Round(time.Hour)
		err = s.Notifier.NotifyRole(ctx, info.RoleName, "reminder",
			"Approval overdue",
			fmt.Sprintf("A document has been waiting for %s approval for %s", info.RoleName, age),
			doc.ID.Hex())
		if err != nil {
			s.Logger.Warn("reminder notification failed",
				zap.String("document_id", doc.ID.Hex()),
				zap.Error(err))
			continue
		}
		sent++

		_ = s.AuditService.LogChange(ctx, common_models.AuditActionReminder, "document", doc.ID.Hex(), map[string]common_models.Change{
			"role": {New: info.RoleName},
		})
	}

	if sent > 0 {
		s.Logger.Info("reminder sweep done",
			zap.Int("stale_documents", len(docs)),
			zap.Int("reminders_sent", sent))
	}
	return sent, nil
}
