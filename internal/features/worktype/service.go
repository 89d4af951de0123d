package worktype

import (
	"context"
	"fmt"
	"sort"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkTypeService interface {
	CreateWorkType(ctx context.Context, wt *WorkType) (*WorkType, error)
	GetWorkType(ctx context.Context, id string) (*WorkType, error)
	ListWorkTypes(ctx context.Context) ([]WorkType, error)
	UpdateWorkType(ctx context.Context, id string, wt *WorkType) error
	DeleteWorkType(ctx context.Context, id string) error

	CreateRequirement(ctx context.Context, req *DocumentRequirement) (*DocumentRequirement, error)
	GetRequirement(ctx context.Context, workTypeID, documentTypeID string) (*DocumentRequirement, error)
	ListRequirements(ctx context.Context, workTypeID string) ([]DocumentRequirement, error)
	UpdateRequirement(ctx context.Context, id string, req *DocumentRequirement) error
	DeleteRequirement(ctx context.Context, id string) error
}

type WorkTypeServiceImpl struct {
	Repo         WorkTypeRepository
	AuditService audit.AuditService
}

func NewWorkTypeService(repo WorkTypeRepository, auditService audit.AuditService) WorkTypeService {
	return &WorkTypeServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *WorkTypeServiceImpl) CreateWorkType(ctx context.Context, wt *WorkType) (*WorkType, error) {
	existing, err := s.Repo.FindByName(ctx, wt.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("work type %q already exists", wt.Name)
	}

	wt.ID = primitive.NewObjectID()
	wt.CreatedAt = time.Now()
	wt.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, wt); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "work_type", wt.ID.Hex(), map[string]common_models.Change{
		"name": {New: wt.Name},
	})

	return wt, nil
}

func (s *WorkTypeServiceImpl) GetWorkType(ctx context.Context, id string) (*WorkType, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *WorkTypeServiceImpl) ListWorkTypes(ctx context.Context) ([]WorkType, error) {
	return s.Repo.List(ctx)
}

func (s *WorkTypeServiceImpl) UpdateWorkType(ctx context.Context, id string, wt *WorkType) error {
	wt.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, wt); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "work_type", id, map[string]common_models.Change{
		"name": {New: wt.Name},
	})
	return nil
}

func (s *WorkTypeServiceImpl) DeleteWorkType(ctx context.Context, id string) error {
	wt, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if wt == nil {
		return fmt.Errorf("work type not found")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "work_type", id, map[string]common_models.Change{
		"name": {Old: wt.Name},
	})
	return nil
}

func (s *WorkTypeServiceImpl) CreateRequirement(ctx context.Context, req *DocumentRequirement) (*DocumentRequirement, error) {
	if err := validateSteps(req.Steps); err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindRequirement(ctx, req.WorkTypeID, req.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("requirement for this work type and document type already exists")
	}

	sortSteps(req.Steps)

	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	if err := s.Repo.CreateRequirement(ctx, req); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "document_requirement", req.ID.Hex(), map[string]common_models.Change{
		"work_type_id":     {New: req.WorkTypeID},
		"document_type_id": {New: req.DocumentTypeID},
	})

	return req, nil
}

func (s *WorkTypeServiceImpl) GetRequirement(ctx context.Context, workTypeID, documentTypeID string) (*DocumentRequirement, error) {
	return s.Repo.FindRequirement(ctx, workTypeID, documentTypeID)
}

func (s *WorkTypeServiceImpl) ListRequirements(ctx context.Context, workTypeID string) ([]DocumentRequirement, error) {
	return s.Repo.ListRequirements(ctx, workTypeID)
}

func (s *WorkTypeServiceImpl) UpdateRequirement(ctx context.Context, id string, req *DocumentRequirement) error {
	if err := validateSteps(req.Steps); err != nil {
		return err
	}
	sortSteps(req.Steps)

	if err := s.Repo.UpdateRequirement(ctx, id, req); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "document_requirement", id, map[string]common_models.Change{
		"steps": {New: req.Steps},
	})
	return nil
}

func (s *WorkTypeServiceImpl) DeleteRequirement(ctx context.Context, id string) error {
	if err := s.Repo.DeleteRequirement(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "document_requirement", id, nil)
	return nil
}

// validateSteps enforces the ladder invariants: Level >= 1, RoleID set,
// and no duplicate (Level, SequenceOrder) pair within one requirement.
func validateSteps(steps []ApprovalStepDef) error {
	seen := make(map[[2]int]bool, len(steps))
	for _, step := range steps {
		if step.Level < 1 {
			return fmt.Errorf("step level must be >= 1, got %d", step.Level)
		}
		if step.RoleID == "" {
			return fmt.Errorf("step at level %d has no role", step.Level)
		}
		key := [2]int{step.Level, step.SequenceOrder}
		if seen[key] {
			return fmt.Errorf("duplicate step (level %d, sequence %d)", step.Level, step.SequenceOrder)
		}
		seen[key] = true
	}
	return nil
}

func sortSteps(steps []ApprovalStepDef) {
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].Level != steps[j].Level {
			return steps[i].Level < steps[j].Level
		}
		return steps[i].SequenceOrder < steps[j].SequenceOrder
	})
}
