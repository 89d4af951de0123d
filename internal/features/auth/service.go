package auth

import (
	"context"
	"errors"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/user"
	"go-procure/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil || u.Status != "active" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Roles)
	if err != nil {
		return "", err
	}

	now := time.Now()
	_ = s.UserRepo.Update(ctx, u.ID.Hex(), bson.M{"last_login": now})

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "user", u.ID.Hex(), nil)

	return token, nil
}
