package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *UserRepo) WithTx(tx *sql.Tx) *UserRepo {
	return &UserRepo{db: tx}
}

func (r *UserRepo) Insert(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("user insert: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, xp, level, avatar_mood, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.XP, u.Level, string(u.AvatarMood), toUnix(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, xp, level, avatar_mood, created_at
		FROM users
		WHERE id = ?
	`, id)

	var (
		u         User
		mood      string
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.XP, &u.Level, &mood, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	u.AvatarMood = Mood(mood)
	u.CreatedAt = fromUnix(createdAt)
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("user get: %w", err)
	}
	return &u, nil
}

// XPAward is the post-increment state of a user.
type XPAward struct {
	UserID        string
	Name          string
	XP            int
	Level         int
	PreviousLevel int
	Mood          Mood
	LeveledUp     bool
}

// AwardXP adds xp to the user in one statement. Level is recomputed from the
// incremented value and the mood is onLevelUp when the level rises, otherwise
// steady. Concurrent awards never lose an increment. Returns nil when the user
// does not exist.
func (r *UserRepo) AwardXP(ctx context.Context, id string, xp int, onLevelUp, steady Mood) (*XPAward, error) {
	if xp <= 0 {
		return nil, fmt.Errorf("user award xp: %w", invalid("xp %d is not positive", xp))
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET xp = xp + ?,
			level = MAX(1, (xp + ?) / ?),
			avatar_mood = CASE WHEN MAX(1, (xp + ?) / ?) > level THEN ? ELSE ? END
		WHERE id = ?
		RETURNING name, xp, level, avatar_mood
	`, xp, xp, XPPerLevel, xp, XPPerLevel, string(onLevelUp), string(steady), id)

	var (
		a    XPAward
		mood string
	)
	if err := row.Scan(&a.Name, &a.XP, &a.Level, &mood); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user award xp: %w", err)
	}
	a.UserID = id
	a.Mood = Mood(mood)
	a.PreviousLevel = LevelForXP(a.XP - xp)
	a.LeveledUp = a.Level > a.PreviousLevel
	return &a, nil
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
