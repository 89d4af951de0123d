package doctype

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentTypeService interface {
	Create(ctx context.Context, dt *DocumentType) (*DocumentType, error)
	Get(ctx context.Context, id string) (*DocumentType, error)
	List(ctx context.Context) ([]DocumentType, error)
	Update(ctx context.Context, id string, dt *DocumentType) error
	Delete(ctx context.Context, id string) error
}

type DocumentTypeServiceImpl struct {
	Repo         DocumentTypeRepository
	AuditService audit.AuditService
}

func NewDocumentTypeService(repo DocumentTypeRepository, auditService audit.AuditService) DocumentTypeService {
	return &DocumentTypeServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *DocumentTypeServiceImpl) Create(ctx context.Context, dt *DocumentType) (*DocumentType, error) {
	existing, err := s.Repo.FindByName(ctx, dt.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("document type %q already exists", dt.Name)
	}

	dt.ID = primitive.NewObjectID()
	dt.CreatedAt = time.Now()
	dt.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, dt); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "document_type", dt.ID.Hex(), map[string]common_models.Change{
		"name": {New: dt.Name},
	})

	return dt, nil
}

func (s *DocumentTypeServiceImpl) Get(ctx context.Context, id string) (*DocumentType, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *DocumentTypeServiceImpl) List(ctx context.Context) ([]DocumentType, error) {
	return s.Repo.List(ctx)
}

func (s *DocumentTypeServiceImpl) Update(ctx context.Context, id string, dt *DocumentType) error {
	if err := s.Repo.Update(ctx, id, dt); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "document_type", id, map[string]common_models.Change{
		"name": {New: dt.Name},
	})
	return nil
}

func (s *DocumentTypeServiceImpl) Delete(ctx context.Context, id string) error {
	dt, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if dt == nil {
		return fmt.Errorf("document type not found")
	}
	if dt.IsSystem {
		return fmt.Errorf("cannot delete system document type")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "document_type", id, map[string]common_models.Change{
		"name": {Old: dt.Name},
	})
	return nil
}
