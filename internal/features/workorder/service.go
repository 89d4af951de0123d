package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/document"
	"go-procure/internal/features/worktype"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type WorkOrderService interface {
	CreateWorkOrder(ctx context.Context, wo *WorkOrder) (*WorkOrder, error)
	GetWorkOrder(ctx context.Context, id string) (*WorkOrder, error)
	ListWorkOrders(ctx context.Context, status common_models.ParentStatus) ([]WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, id string, wo *WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id string) error

	// Parent aggregate port used by the document and approval features.
	Amount(ctx context.Context, parentID string) (float64, error)
	WorkTypeID(ctx context.Context, parentID string) (string, error)
	OnDocumentRegistered(ctx context.Context, parentID string) error
	OnDocumentDecided(ctx context.Context, parentID string) error
}

type WorkOrderServiceImpl struct {
	Repo            WorkOrderRepository
	WorkTypeService worktype.WorkTypeService
	DocumentRepo    document.DocumentRepository
	AuditService    audit.AuditService
	Logger          *zap.Logger
}

func NewWorkOrderService(
	repo WorkOrderRepository,
	workTypeService worktype.WorkTypeService,
	documentRepo document.DocumentRepository,
	auditService audit.AuditService,
	logger *zap.Logger,
) WorkOrderService {
	return &WorkOrderServiceImpl{
		Repo:            repo,
		WorkTypeService: workTypeService,
		DocumentRepo:    documentRepo,
		AuditService:    auditService,
		Logger:          logger,
	}
}

func (s *WorkOrderServiceImpl) CreateWorkOrder(ctx context.Context, wo *WorkOrder) (*WorkOrder, error) {
	wt, err := s.WorkTypeService.GetWorkType(ctx, wo.WorkTypeID)
	if err != nil {
		return nil, err
	}
	if wt == nil {
		return nil, fmt.Errorf("work type %s not found", wo.WorkTypeID)
	}
	if wt.Kind != common_models.KindWorkOrder {
		return nil, fmt.Errorf("work type %q is not a work order type", wt.Name)
	}

	wo.ID = primitive.NewObjectID()
	if wo.Number == "" {
		wo.Number = "WO-" + strings.ToUpper(wo.ID.Hex()[18:])
	}
	wo.Status = common_models.ParentStatusOpen
	wo.CreatedAt = time.Now()
	wo.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, wo); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "work_order", wo.ID.Hex(), map[string]common_models.Change{
		"number": {New: wo.Number},
		"amount": {New: wo.Amount},
	})

	return wo, nil
}

func (s *WorkOrderServiceImpl) GetWorkOrder(ctx context.Context, id string) (*WorkOrder, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *WorkOrderServiceImpl) ListWorkOrders(ctx context.Context, status common_models.ParentStatus) ([]WorkOrder, error) {
	return s.Repo.List(ctx, status)
}

func (s *WorkOrderServiceImpl) UpdateWorkOrder(ctx context.Context, id string, wo *WorkOrder) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("work order not found")
	}
	if existing.Status == common_models.ParentStatusCompleted {
		return fmt.Errorf("completed work order cannot be modified")
	}

	if err := s.Repo.Update(ctx, id, wo); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "work_order", id, map[string]common_models.Change{
		"amount": {Old: existing.Amount, New: wo.Amount},
	})
	return nil
}

func (s *WorkOrderServiceImpl) DeleteWorkOrder(ctx context.Context, id string) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("work order not found")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "work_order", id, map[string]common_models.Change{
		"number": {Old: existing.Number},
	})
	return nil
}

func (s *WorkOrderServiceImpl) Amount(ctx context.Context, parentID string) (float64, error) {
	wo, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return 0, err
	}
	if wo == nil {
		return 0, fmt.Errorf("work order %s not found", parentID)
	}
	return wo.Amount, nil
}

func (s *WorkOrderServiceImpl) WorkTypeID(ctx context.Context, parentID string) (string, error) {
	wo, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return "", err
	}
	if wo == nil {
		return "", fmt.Errorf("work order %s not found", parentID)
	}
	return wo.WorkTypeID, nil
}

func (s *WorkOrderServiceImpl) OnDocumentRegistered(ctx context.Context, parentID string) error {
	wo, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if wo == nil {
		return fmt.Errorf("work order %s not found", parentID)
	}
	if wo.Status != common_models.ParentStatusOpen {
		return nil
	}
	return s.Repo.SetStatus(ctx, parentID, common_models.ParentStatusInProgress)
}

// OnDocumentDecided advances the work order to completed once every document
// requirement that demands approval has an approved instance. The transition
// is a single state change and fires at most once.
func (s *WorkOrderServiceImpl) OnDocumentDecided(ctx context.Context, parentID string) error {
	wo, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if wo == nil {
		return fmt.Errorf("work order %s not found", parentID)
	}
	if wo.Status == common_models.ParentStatusCompleted {
		return nil
	}

	done, err := document.AllRequiredApproved(ctx, s.WorkTypeService, s.DocumentRepo, common_models.KindWorkOrder, wo.WorkTypeID, parentID)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	if err := s.Repo.SetStatus(ctx, parentID, common_models.ParentStatusCompleted); err != nil {
		return err
	}
	s.Logger.Info("work order completed", zap.String("work_order_id", parentID))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "work_order", parentID, map[string]common_models.Change{
		"status": {Old: wo.Status, New: common_models.ParentStatusCompleted},
	})
	return nil
}
