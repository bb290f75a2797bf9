package engine

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"avatarquest/internal/coach"
	"avatarquest/internal/storage"
)

// Coach produces the message attached to a completion. Implementations must
// always return usable text.
type Coach interface {
	Message(ctx context.Context, p coach.Prompt) string
}

type Service struct {
	db      *sql.DB
	users   *storage.UserRepo
	tasks   *storage.TaskRepo
	avatars *storage.AvatarRepo
	coach   Coach
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(db *sql.DB, c Coach, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:      db,
		users:   storage.NewUserRepo(db),
		tasks:   storage.NewTaskRepo(db),
		avatars: storage.NewAvatarRepo(db),
		coach:   c,
		logger:  logger.Named("engine"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *Service) UserRepo() *storage.UserRepo     { return s.users }
func (s *Service) TaskRepo() *storage.TaskRepo     { return s.tasks }
func (s *Service) AvatarRepo() *storage.AvatarRepo { return s.avatars }

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", invalidArgument("title is required")
	}
	return t, nil
}
