package engine

import (
	"context"
	"fmt"

	"avatarquest/internal/storage"
)

// AvatarView is the presentation state of a user's avatar.
type AvatarView struct {
	Mood      storage.Mood
	Animation storage.Animation
	Message   string
	XP        int
	Level     int
}

func greeting(name string) string {
	return fmt.Sprintf("Hey %s! I'm ready to celebrate your productivity! 🎯", name)
}

// AvatarState returns the user's most recent avatar state, or an idle
// greeting when nothing has been recorded yet. XP and level always come from
// the user record.
func (s *Service) AvatarState(ctx context.Context, userID string) (*AvatarView, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NotFound(EntityUser, userID)
	}

	latest, err := s.avatars.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &AvatarView{
			Mood:      u.AvatarMood,
			Animation: storage.AnimationIdle,
			Message:   greeting(u.Name),
			XP:        u.XP,
			Level:     u.Level,
		}, nil
	}
	return &AvatarView{
		Mood:      latest.Mood,
		Animation: latest.Animation,
		Message:   latest.Message,
		XP:        u.XP,
		Level:     u.Level,
	}, nil
}
