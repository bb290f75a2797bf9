package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// XPPerLevel is the XP span of one level.
const XPPerLevel = 100

// LevelForXP returns max(1, floor(xp / XPPerLevel)).
func LevelForXP(xp int) int {
	if lvl := xp / XPPerLevel; lvl > 1 {
		return lvl
	}
	return 1
}

type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodExcited Mood = "excited"
	MoodTired   Mood = "tired"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodNeutral, MoodHappy, MoodSad, MoodExcited, MoodTired:
		return true
	default:
		return false
	}
}

type Animation string

const (
	AnimationIdle        Animation = "idle"
	AnimationHappyBounce Animation = "happy_bounce"
	AnimationCelebrate   Animation = "celebrate"
)

func (a Animation) IsValid() bool {
	switch a {
	case AnimationIdle, AnimationHappyBounce, AnimationCelebrate:
		return true
	default:
		return false
	}
}

// ErrInvalidRecord marks a record that breaks the stored schema.
var ErrInvalidRecord = errors.New("invalid record")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	XP         int       `json:"xp"`
	Level      int       `json:"level"`
	AvatarMood Mood      `json:"avatar_mood"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.ID) == "":
		return invalid("user id is empty")
	case strings.TrimSpace(u.Name) == "":
		return invalid("user %s: name is empty", u.ID)
	case u.XP < 0:
		return invalid("user %s: xp %d is negative", u.ID, u.XP)
	case u.Level != LevelForXP(u.XP):
		return invalid("user %s: level %d does not match xp %d", u.ID, u.Level, u.XP)
	case !u.AvatarMood.IsValid():
		return invalid("user %s: mood %q", u.ID, u.AvatarMood)
	}
	return nil
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	XPReward    int        `json:"xp_reward"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (t *Task) Validate() error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return invalid("task id is empty")
	case strings.TrimSpace(t.UserID) == "":
		return invalid("task %s: user id is empty", t.ID)
	case strings.TrimSpace(t.Title) == "":
		return invalid("task %s: title is empty", t.ID)
	case t.XPReward <= 0:
		return invalid("task %s: xp reward %d is not positive", t.ID, t.XPReward)
	case t.Completed != (t.CompletedAt != nil):
		return invalid("task %s: completed=%t disagrees with completed_at", t.ID, t.Completed)
	}
	return nil
}

type AvatarState struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      Mood      `json:"mood"`
	Animation Animation `json:"animation"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AvatarState) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return invalid("avatar state id is empty")
	case strings.TrimSpace(a.UserID) == "":
		return invalid("avatar state %s: user id is empty", a.ID)
	case !a.Mood.IsValid():
		return invalid("avatar state %s: mood %q", a.ID, a.Mood)
	case !a.Animation.IsValid():
		return invalid("avatar state %s: animation %q", a.ID, a.Animation)
	}
	return nil
}
