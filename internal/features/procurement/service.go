package procurement

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

type ProcurementService interface {
	CreateProcurement(ctx context.Context, p *Procurement) (*Procurement, error)
	GetProcurement(ctx context.Context, id string) (*Procurement, error)
	ListProcurements(ctx context.Context, status common_models.ParentStatus) ([]Procurement, error)
	UpdateProcurement(ctx context.Context, id string, p *Procurement) error
	DeleteProcurement(ctx context.Context, id string) error

	UpsertVendor(ctx context.Context, v *Vendor) error
	ListVendors(ctx context.Context) ([]Vendor, error)

	// Parent aggregate port used by the document and approval features.
	Amount(ctx context.Context, parentID string) (float64, error)
	WorkTypeID(ctx context.Context, parentID string) (string, error)
	OnDocumentRegistered(ctx context.Context, parentID string) error
	OnDocumentDecided(ctx context.Context, parentID string) error
}

type ProcurementServiceImpl struct {
	Repo            ProcurementRepository
	WorkTypeService worktype.WorkTypeService
	DocumentRepo    document.DocumentRepository
	AuditService    audit.AuditService
	Logger          *zap.Logger
}

func NewProcurementService(
	repo ProcurementRepository,
	workTypeService worktype.WorkTypeService,
	documentRepo document.DocumentRepository,
	auditService audit.AuditService,
	logger *zap.Logger,
) ProcurementService {
	return &ProcurementServiceImpl{
		Repo:            repo,
		WorkTypeService: workTypeService,
		DocumentRepo:    documentRepo,
		AuditService:    auditService,
		Logger:          logger,
	}
}

func (s *ProcurementServiceImpl) CreateProcurement(ctx context.Context, p *Procurement) (*Procurement, error) {
	wt, err := s.WorkTypeService.GetWorkType(ctx, p.WorkTypeID)
	if err != nil {
		return nil, err
	}
	if wt == nil {
		return nil, fmt.Errorf("work type %s not found", p.WorkTypeID)
	}
	if wt.Kind != common_models.KindProcurement {
		return nil, fmt.Errorf("work type %q is not a procurement type", wt.Name)
	}

	if p.VendorID != "" {
		vendor, err := s.Repo.FindVendorByID(ctx, p.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, fmt.Errorf("vendor %s not found", p.VendorID)
		}
	}

	p.ID = primitive.NewObjectID()
	if p.Number == "" {
		p.Number = "PR-" + strings.ToUpper(p.ID.Hex()[18:])
	}
	p.Status = common_models.ParentStatusOpen
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "procurement", p.ID.Hex(), map[string]common_models.Change{
		"number": {New: p.Number},
		"amount": {New: p.Amount},
	})

	return p, nil
}

func (s *ProcurementServiceImpl) GetProcurement(ctx context.Context, id string) (*Procurement, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ProcurementServiceImpl) ListProcurements(ctx context.Context, status common_models.ParentStatus) ([]Procurement, error) {
	return s.Repo.List(ctx, status)
}

func (s *ProcurementServiceImpl) UpdateProcurement(ctx context.Context, id string, p *Procurement) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("procurement not found")
	}
	if existing.Status == common_models.ParentStatusCompleted {
		return fmt.Errorf("completed procurement cannot be modified")
	}

	if err := s.Repo.Update(ctx, id, p); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "procurement", id, map[string]common_models.Change{
		"amount": {Old: existing.Amount, New: p.Amount},
	})
	return nil
}

func (s *ProcurementServiceImpl) DeleteProcurement(ctx context.Context, id string) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("procurement not found")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "procurement", id, map[string]common_models.Change{
		"number": {Old: existing.Number},
	})
	return nil
}

func (s *ProcurementServiceImpl) UpsertVendor(ctx context.Context, v *Vendor) error {
	return s.Repo.UpsertVendor(ctx, v)
}

func (s *ProcurementServiceImpl) ListVendors(ctx context.Context) ([]Vendor, error) {
	return s.Repo.ListVendors(ctx)
}

func (s *ProcurementServiceImpl) Amount(ctx context.Context, parentID string) (float64, error) {
	p, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("procurement %s not found", parentID)
	}
	return p.Amount, nil
}

func (s *ProcurementServiceImpl) WorkTypeID(ctx context.Context, parentID string) (string, error) {
	p, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("procurement %s not found", parentID)
	}
	return p.WorkTypeID, nil
}

func (s *ProcurementServiceImpl) OnDocumentRegistered(ctx context.Context, parentID string) error {
	p, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("procurement %s not found", parentID)
	}
	if p.Status != common_models.ParentStatusOpen {
		return nil
	}
	return s.Repo.SetStatus(ctx, parentID, common_models.ParentStatusInProgress)
}

// OnDocumentDecided advances the procurement to completed once every document
// requirement that demands approval has an approved instance.
func (s *ProcurementServiceImpl) OnDocumentDecided(ctx context.Context, parentID string) error {
	p, err := s.Repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("procurement %s not found", parentID)
	}
	if p.Status == common_models.ParentStatusCompleted {
		return nil
	}

	done, err := document.AllRequiredApproved(ctx, s.WorkTypeService, s.DocumentRepo, common_models.KindProcurement, p.WorkTypeID, parentID)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	if err := s.Repo.SetStatus(ctx, parentID, common_models.ParentStatusCompleted); err != nil {
		return err
	}
	s.Logger.Info("procurement completed", zap.String("procurement_id", parentID))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "procurement", parentID, map[string]common_models.Change{
		"status": {Old: p.Status, New: common_models.ParentStatusCompleted},
	})
	return nil
}
