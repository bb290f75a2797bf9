package engine

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"avatarquest/internal/storage"
)

// DefaultXPReward applies when a task is created without a reward.
const DefaultXPReward = 10

type CreateUserInput struct {
	Name  string
	Email string
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description *string
	XPReward    int
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*storage.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, invalidArgument("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalidArgument("email %q is invalid", email)
	}

	u := &storage.User{
		ID:         s.newID(),
		Name:       name,
		Email:      email,
		XP:         0,
		Level:      LevelForXP(0),
		AvatarMood: storage.MoodNeutral,
		CreatedAt:  s.now(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", u.ID))
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*storage.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NotFound(EntityUser, id)
	}
	return u, nil
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*storage.Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	reward := in.XPReward
	if reward == 0 {
		reward = DefaultXPReward
	}
	if reward < 0 {
		return nil, invalidArgument("xp reward must be positive, got %d", reward)
	}

	if _, err := s.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	var desc *string
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			desc = &d
		}
	}

	t := &storage.Task{
		ID:          s.newID(),
		UserID:      in.UserID,
		Title:       title,
		Description: desc,
		XPReward:    reward,
		CreatedAt:   s.now(),
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("task created", zap.String("task_id", t.ID), zap.String("user_id", t.UserID), zap.Int("xp_reward", reward))
	return t, nil
}

// ListTasks returns the user's tasks in creation order.
func (s *Service) ListTasks(ctx context.Context, userID string) ([]storage.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	ok, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound(EntityTask, id)
	}
	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}
