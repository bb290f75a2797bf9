package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// AvatarRepo is the append-only avatar state log.
type AvatarRepo struct {
	db DBTX
}

func NewAvatarRepo(db DBTX) *AvatarRepo {
	return &AvatarRepo{db: db}
}

func (r *AvatarRepo) Append(ctx context.Context, s *AvatarState) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("avatar state append: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO avatar_states (id, user_id, mood, animation, message, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, string(s.Mood), string(s.Animation), s.Message, toUnix(s.Timestamp))
	if err != nil {
		return fmt.Errorf("avatar state append: %w", err)
	}
	return nil
}

// Latest returns the user's most recent state by timestamp, or nil when the
// user has none. Equal timestamps resolve to the later write.
func (r *AvatarRepo) Latest(ctx context.Context, userID string) (*AvatarState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, mood, animation, message, ts
		FROM avatar_states
		WHERE user_id = ?
		ORDER BY ts DESC, seq DESC
		LIMIT 1
	`, userID)

	var (
		s         AvatarState
		mood      string
		animation string
		ts        int64
	)
	if err := row.Scan(&s.ID, &s.UserID, &mood, &animation, &s.Message, &ts); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("avatar state latest: %w", err)
	}
	s.Mood = Mood(mood)
	s.Animation = Animation(animation)
	s.Timestamp = fromUnix(ts)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("avatar state latest: %w", err)
	}
	return &s, nil
}

func (r *AvatarRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM avatar_states WHERE user_id = ?`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("avatar state count: %w", err)
	}
	return n, nil
}
