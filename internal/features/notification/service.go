package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-procure/internal/features/user"

	"github.com/gofiber/contrib/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	// Notify stores a notification for one user and pushes it to any open
	// websocket connections.
	Notify(ctx context.Context, n *Notification) error
	// NotifyRole fans a notification out to every active user holding the role.
	NotifyRole(ctx context.Context, roleName, kind, title, message, documentID string) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error

	Register(userID string, conn *websocket.Conn)
	Unregister(userID string, conn *websocket.Conn)
}

type NotificationServiceImpl struct {
	Repo     NotificationRepository
	UserRepo user.UserRepository
	Logger   *zap.Logger

	mu    sync.RWMutex
	conns map[string][]*websocket.Conn
}

func NewNotificationService(repo NotificationRepository, userRepo user.UserRepository, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
		Logger:   logger,
		conns:    make(map[string][]*websocket.Conn),
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, n *Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()

	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

func (s *NotificationServiceImpl) NotifyRole(ctx context.Context, roleName, kind, title, message, documentID string) error {
	users, err := s.UserRepo.FindByRole(ctx, roleName)
	if err != nil {
		return err
	}
	for _, u := range users {
		n := &Notification{
			UserID:     u.ID.Hex(),
			RoleName:   roleName,
			Title:      title,
			Message:    message,
			Kind:       kind,
			DocumentID: documentID,
		}
		if err := s.Notify(ctx, n); err != nil {
			s.Logger.Warn("failed to notify user",
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	return s.Repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID string) error {
	return s.Repo.MarkRead(ctx, id, userID)
}

func (s *NotificationServiceImpl) Register(userID string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[userID] = append(s.conns[userID], conn)
}

func (s *NotificationServiceImpl) Unregister(userID string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conns := s.conns[userID]
	for i, c := range conns {
		if c == conn {
			s.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.conns[userID]) == 0 {
		delete(s.conns, userID)
	}
}

func (s *NotificationServiceImpl) push(n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}

	s.mu.RLock()
	conns := append([]*websocket.Conn(nil), s.conns[n.UserID]...)
	s.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.Logger.Debug("websocket push failed", zap.String("user_id", n.UserID), zap.Error(err))
		}
	}
}
