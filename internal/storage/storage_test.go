package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	u := &User{ID: id, Name: "Ada", Email: "ada@example.com", Level: 1, AvatarMood: MoodNeutral, CreatedAt: time.Now()}
	if err := NewUserRepo(db).Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
}

func TestTaskClaimIsConditional(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepo(db)

	task := &Task{ID: "t1", UserID: "u1", Title: "Read", XPReward: 10, CreatedAt: time.Now()}
	if err := repo.Insert(ctx, task); err != nil {
		t.Fatalf("insert: %v", err)
	}

	at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	got, claimed, err := repo.Claim(ctx, "t1", at)
	if err != nil || !claimed {
		t.Fatalf("first claim claimed=%t err=%v", claimed, err)
	}
	if !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(at) {
		t.Fatalf("claimed task=%+v", got)
	}

	got, claimed, err = repo.Claim(ctx, "t1", at.Add(time.Hour))
	if err != nil || claimed {
		t.Fatalf("second claim claimed=%t err=%v", claimed, err)
	}
	if !got.CompletedAt.Equal(at) {
		t.Fatalf("completed_at moved to %v", got.CompletedAt)
	}

	got, claimed, err = repo.Claim(ctx, "nope", at)
	if err != nil || claimed || got != nil {
		t.Fatalf("missing claim got=%v claimed=%t err=%v", got, claimed, err)
	}
}

func TestAwardXPRecomputesLevelAndMood(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	repo := NewUserRepo(db)

	a, err := repo.AwardXP(ctx, "u1", 150, MoodExcited, MoodHappy)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if a.XP != 150 || a.Level != 1 || a.LeveledUp || a.Mood != MoodHappy || a.Name != "Ada" {
		t.Fatalf("award=%+v", a)
	}

	a, err = repo.AwardXP(ctx, "u1", 60, MoodExcited, MoodHappy)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if a.XP != 210 || a.Level != 2 || a.PreviousLevel != 1 || !a.LeveledUp || a.Mood != MoodExcited {
		t.Fatalf("award=%+v", a)
	}

	u, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.XP != 210 || u.Level != 2 || u.AvatarMood != MoodExcited {
		t.Fatalf("user=%+v", u)
	}

	if a, err := repo.AwardXP(ctx, "ghost", 10, MoodExcited, MoodHappy); err != nil || a != nil {
		t.Fatalf("ghost award=%v err=%v", a, err)
	}
	if _, err := repo.AwardXP(ctx, "u1", 0, MoodExcited, MoodHappy); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("zero award err=%v", err)
	}
}

func TestAvatarLatestOrdersByTimestamp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAvatarRepo(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	states := []*AvatarState{
		{ID: "late", UserID: "u1", Mood: MoodExcited, Animation: AnimationCelebrate, Message: "late", Timestamp: base.Add(time.Minute)},
		{ID: "early", UserID: "u1", Mood: MoodHappy, Animation: AnimationHappyBounce, Message: "early", Timestamp: base},
		{ID: "other", UserID: "u2", Mood: MoodHappy, Animation: AnimationHappyBounce, Message: "other", Timestamp: base.Add(time.Hour)},
	}
	for _, s := range states {
		if err := repo.Append(ctx, s); err != nil {
			t.Fatalf("append %s: %v", s.ID, err)
		}
	}

	latest, err := repo.Latest(ctx, "u1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "late" || !latest.Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("latest=%+v, want late", latest)
	}

	none, err := repo.Latest(ctx, "u3")
	if err != nil || none != nil {
		t.Fatalf("latest for empty user=%v err=%v", none, err)
	}
}

func TestValidationAtBoundary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	bad := &AvatarState{ID: "x", UserID: "u1", Mood: "grumpy", Animation: AnimationIdle, Timestamp: time.Now()}
	if err := NewAvatarRepo(db).Append(ctx, bad); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("append bad mood err=%v", err)
	}

	if err := NewTaskRepo(db).Insert(ctx, &Task{ID: "t", UserID: "u", Title: "x", XPReward: 0, CreatedAt: time.Now()}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("insert zero reward err=%v", err)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO users (id, name, email, xp, level, avatar_mood, created_at) VALUES ('u9', 'Bo', 'bo@example.com', 500, 1, 'happy', 0)`); err != nil {
		t.Fatalf("raw insert: %v", err)
	}
	if _, err := NewUserRepo(db).Get(ctx, "u9"); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("get inconsistent user err=%v", err)
	}
}

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 1, 199: 1, 200: 2, 205: 2, 999: 9, 1000: 10}
	for xp, want := range cases {
		if got := LevelForXP(xp); got != want {
			t.Fatalf("LevelForXP(%d)=%d, want %d", xp, got, want)
		}
	}
}
