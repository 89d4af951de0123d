package user

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *common_models.User, password string) (*common_models.User, error)
	GetUser(ctx context.Context, id string) (*common_models.User, error)
	ListUsers(ctx context.Context) ([]common_models.User, error)
	ListUsersByRole(ctx context.Context, roleName string) ([]common_models.User, error)
	UpdateRoles(ctx context.Context, id string, roles []string) error
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	AuditService audit.AuditService
}

func NewUserService(userRepo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *common_models.User, password string) (*common_models.User, error) {
	existing, err := s.UserRepo.FindByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q already taken", user.Username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.ID = primitive.NewObjectID()
	user.Password = string(hashed)
	user.Status = "active"
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "user", user.ID.Hex(), map[string]common_models.Change{
		"username": {New: user.Username},
	})

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*common_models.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]common_models.User, error) {
	return s.UserRepo.List(ctx)
}

func (s *UserServiceImpl) ListUsersByRole(ctx context.Context, roleName string) ([]common_models.User, error) {
	return s.UserRepo.FindByRole(ctx, roleName)
}

func (s *UserServiceImpl) UpdateRoles(ctx context.Context, id string, roles []string) error {
	if err := s.UserRepo.Update(ctx, id, bson.M{"roles": roles, "updated_at": time.Now()}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "user", id, map[string]common_models.Change{
		"roles": {New: roles},
	})

	return nil
}
