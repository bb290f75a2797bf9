package engine

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"avatarquest/internal/coach"
	"avatarquest/internal/storage"
)

type CompleteResult struct {
	TaskID     string
	UserID     string
	XPGained   int
	NewXP      int
	NewLevel   int
	LevelUp    bool
	AvatarMood storage.Mood
	Animation  storage.Animation
	AIMessage  string
}

// CompleteTask awards the task's XP to its owner exactly once, then attaches a
// coaching message and records the resulting avatar state.
//
// The claim and the XP award commit together or not at all. A task that is
// missing, already completed or owned by a missing user leaves no trace. The
// coach is only consulted after the commit, and nothing after the commit
// undoes the award.
func (s *Service) CompleteTask(ctx context.Context, id string) (*CompleteResult, error) {
	var (
		task  *storage.Task
		award *storage.XPAward
	)
	onLevelUp, _ := Reaction(true)
	steady, _ := Reaction(false)

	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, claimed, err := s.tasks.WithTx(tx).Claim(ctx, id, s.now())
		if err != nil {
			return err
		}
		if t == nil {
			return NotFound(EntityTask, id)
		}
		if !claimed {
			return AlreadyCompleted(id)
		}

		a, err := s.users.WithTx(tx).AwardXP(ctx, t.UserID, t.XPReward, onLevelUp, steady)
		if err != nil {
			return err
		}
		if a == nil {
			return IntegrityFault(id, t.UserID)
		}
		task, award = t, a
		return nil
	})
	if err != nil {
		if code, ok := CodeOf(err); ok && code == CodeIntegrityFault {
			s.logger.Error("task owner missing", zap.String("task_id", id), zap.Error(err))
		}
		return nil, err
	}

	mood, animation := Reaction(award.LeveledUp)
	s.logger.Info("task completed",
		zap.String("task_id", task.ID),
		zap.String("user_id", task.UserID),
		zap.Int("xp_gained", task.XPReward),
		zap.Int("new_xp", award.XP),
		zap.Int("new_level", award.Level),
		zap.Bool("level_up", award.LeveledUp),
	)

	// Committed state outlives the caller from here on.
	ctx = context.WithoutCancel(ctx)

	message := s.coach.Message(ctx, coach.Prompt{
		UserName:  award.Name,
		TaskTitle: task.Title,
		Level:     award.Level,
		XPGained:  task.XPReward,
	})

	state := &storage.AvatarState{
		ID:        s.newID(),
		UserID:    task.UserID,
		Mood:      mood,
		Animation: animation,
		Message:   message,
		Timestamp: s.now(),
	}
	if err := s.avatars.Append(ctx, state); err != nil {
		s.logger.Error("append avatar state after award", zap.String("task_id", task.ID), zap.Error(err))
		return nil, err
	}

	return &CompleteResult{
		TaskID:     task.ID,
		UserID:     task.UserID,
		XPGained:   task.XPReward,
		NewXP:      award.XP,
		NewLevel:   award.Level,
		LevelUp:    award.LeveledUp,
		AvatarMood: mood,
		Animation:  animation,
		AIMessage:  message,
	}, nil
}
