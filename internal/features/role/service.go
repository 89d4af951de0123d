package role

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id string, role *Role) error
	DeleteRole(ctx context.Context, id string) error

	// ResolveName maps a role id to its current name. Returns "" when the
	// role no longer exists; the gate evaluator fails closed on that.
	ResolveName(ctx context.Context, id string) (string, error)
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	AuditService audit.AuditService
}

func NewRoleService(roleRepo RoleRepository, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	role.ID = primitive.NewObjectID()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	existing, err := s.RoleRepo.FindByName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("role %q already exists", role.Name)
	}

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "role", role.ID.Hex(), map[string]common_models.Change{
		"name": {New: role.Name},
	})

	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	return s.RoleRepo.FindByID(ctx, id)
}

func (s *RoleServiceImpl) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.RoleRepo.FindByName(ctx, name)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, role *Role) error {
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Update(ctx, id, role); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", id, map[string]common_models.Change{
		"name": {New: role.Name},
	})

	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("role not found")
	}
	if role.IsSystem {
		return fmt.Errorf("cannot delete system role")
	}

	if err := s.RoleRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", id, map[string]common_models.Change{
		"name": {Old: role.Name},
	})

	return nil
}

func (s *RoleServiceImpl) ResolveName(ctx context.Context, id string) (string, error) {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if role == nil {
		return "", nil
	}
	return role.Name, nil
}
