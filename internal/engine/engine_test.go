package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"avatarquest/internal/coach"
	"avatarquest/internal/storage"
)

type fakeCoach struct {
	mu      sync.Mutex
	prompts []coach.Prompt
	reply   string
}

func (f *fakeCoach) Message(_ context.Context, p coach.Prompt) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	if f.reply != "" {
		return f.reply
	}
	return coach.Fallback(p)
}

func (f *fakeCoach) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestService(t *testing.T, c Coach) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db, c, zaptest.NewLogger(t))
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func createUser(t *testing.T, svc *Service, xp int) *storage.User {
	t.Helper()
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if xp > 0 {
		if _, err := svc.UserRepo().AwardXP(ctx, u.ID, xp, storage.MoodExcited, storage.MoodHappy); err != nil {
			t.Fatalf("seed xp: %v", err)
		}
	}
	u, err = svc.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	return u
}

func createTask(t *testing.T, svc *Service, userID string, title string, reward int) *storage.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), CreateTaskInput{UserID: userID, Title: title, XPReward: reward})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

func TestLevelForXP(t *testing.T) {
	for xp := 0; xp <= 1000; xp++ {
		want := xp / 100
		if want < 1 {
			want = 1
		}
		if got := LevelForXP(xp); got != want {
			t.Fatalf("LevelForXP(%d)=%d, want %d", xp, got, want)
		}
	}
	if got := XPToNextLevel(190); got != 10 {
		t.Fatalf("XPToNextLevel(190)=%d, want 10", got)
	}
	if got := XPToNextLevel(0); got != 200 {
		t.Fatalf("XPToNextLevel(0)=%d, want 200", got)
	}
}

func TestCompleteTaskLevelUp(t *testing.T) {
	fc := &fakeCoach{reply: "Level two!"}
	svc, cleanup := newTestService(t, fc)
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 190)
	if u.Level != 1 {
		t.Fatalf("seed level=%d, want 1", u.Level)
	}
	task := createTask(t, svc, u.ID, "Ship release", 15)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.XPGained != 15 || res.NewXP != 205 || res.NewLevel != 2 || !res.LevelUp {
		t.Fatalf("result=%+v, want xp 15 -> 205, level 2, level up", res)
	}
	if res.AvatarMood != storage.MoodExcited || res.Animation != storage.AnimationCelebrate {
		t.Fatalf("reaction=%s/%s, want excited/celebrate", res.AvatarMood, res.Animation)
	}
	if res.AIMessage != "Level two!" {
		t.Fatalf("message=%q", res.AIMessage)
	}

	if fc.calls() != 1 {
		t.Fatalf("coach calls=%d, want 1", fc.calls())
	}
	want := coach.Prompt{UserName: "Ada", TaskTitle: "Ship release", Level: 2, XPGained: 15}
	if fc.prompts[0] != want {
		t.Fatalf("prompt=%+v, want %+v", fc.prompts[0], want)
	}

	stored, err := svc.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if stored.XP != 205 || stored.Level != 2 || stored.AvatarMood != storage.MoodExcited {
		t.Fatalf("stored user=%+v", stored)
	}

	done, err := svc.TaskRepo().Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Fatalf("task not marked completed: %+v", done)
	}

	view, err := svc.AvatarState(ctx, u.ID)
	if err != nil {
		t.Fatalf("AvatarState: %v", err)
	}
	if view.Mood != storage.MoodExcited || view.Animation != storage.AnimationCelebrate || view.Message != "Level two!" {
		t.Fatalf("view=%+v", view)
	}
	if view.XP != 205 || view.Level != 2 {
		t.Fatalf("view xp/level=%d/%d", view.XP, view.Level)
	}
}

func TestCompleteTaskWithoutLevelUp(t *testing.T) {
	svc, cleanup := newTestService(t, &fakeCoach{})
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 50)
	task := createTask(t, svc, u.ID, "Water plants", 10)

	res, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.XPGained != 10 || res.NewXP != 60 || res.NewLevel != 1 || res.LevelUp {
		t.Fatalf("result=%+v, want xp 10 -> 60, level 1, no level up", res)
	}
	if res.AvatarMood != storage.MoodHappy || res.Animation != storage.AnimationHappyBounce {
		t.Fatalf("reaction=%s/%s, want happy/happy_bounce", res.AvatarMood, res.Animation)
	}
}

func TestCompleteTaskTwiceIsRejected(t *testing.T) {
	fc := &fakeCoach{}
	svc, cleanup := newTestService(t, fc)
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 0)
	task := createTask(t, svc, u.ID, "Stretch", 20)

	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	_, err := svc.CompleteTask(ctx, task.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion err=%v, want ErrAlreadyCompleted", err)
	}

	stored, _ := svc.GetUser(ctx, u.ID)
	if stored.XP != 20 {
		t.Fatalf("xp=%d after duplicate, want 20", stored.XP)
	}
	n, err := svc.AvatarRepo().CountByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("count avatar states: %v", err)
	}
	if n != 1 {
		t.Fatalf("avatar states=%d, want 1", n)
	}
	if fc.calls() != 1 {
		t.Fatalf("coach calls=%d, want 1", fc.calls())
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	fc := &fakeCoach{}
	svc, cleanup := newTestService(t, fc)
	defer cleanup()

	_, err := svc.CompleteTask(context.Background(), "missing-task")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Entity != EntityTask {
		t.Fatalf("err=%#v, want task entity", err)
	}
	if fc.calls() != 0 {
		t.Fatalf("coach called for missing task")
	}
}

func TestCompleteTaskMissingOwnerRollsBack(t *testing.T) {
	fc := &fakeCoach{}
	svc, cleanup := newTestService(t, fc)
	defer cleanup()
	ctx := context.Background()

	orphan := &storage.Task{
		ID:        "orphan",
		UserID:    "ghost",
		Title:     "Haunt",
		XPReward:  10,
		CreatedAt: svc.now(),
	}
	if err := svc.TaskRepo().Insert(ctx, orphan); err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	_, err := svc.CompleteTask(ctx, orphan.ID)
	if !errors.Is(err, ErrIntegrityFault) {
		t.Fatalf("err=%v, want ErrIntegrityFault", err)
	}

	got, err := svc.TaskRepo().Get(ctx, orphan.ID)
	if err != nil {
		t.Fatalf("get orphan: %v", err)
	}
	if got.Completed || got.CompletedAt != nil {
		t.Fatalf("orphan claim was not rolled back: %+v", got)
	}
	if n, _ := svc.AvatarRepo().CountByUser(ctx, "ghost"); n != 0 {
		t.Fatalf("avatar states=%d, want 0", n)
	}
	if fc.calls() != 0 {
		t.Fatalf("coach called for integrity fault")
	}
}

func TestCompleteTaskWithoutCoachKeyUsesFallback(t *testing.T) {
	c, err := coach.New(coach.Config{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("coach.New: %v", err)
	}
	svc, cleanup := newTestService(t, c)
	defer cleanup()

	u := createUser(t, svc, 0)
	task := createTask(t, svc, u.ID, "Inbox zero", 10)

	res, err := svc.CompleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.AIMessage == "" || !strings.Contains(res.AIMessage, "Inbox zero") {
		t.Fatalf("message=%q, want fallback naming the task", res.AIMessage)
	}
}

func TestConcurrentDuplicateCompletionsAwardOnce(t *testing.T) {
	fc := &fakeCoach{}
	svc, cleanup := newTestService(t, fc)
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 0)
	task := createTask(t, svc, u.ID, "Race", 25)

	const attempts = 12
	var (
		mu        sync.Mutex
		successes int
		rejected  int
	)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := svc.CompleteTask(ctx, task.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyCompleted):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected completion error: %v", err)
	}
	if successes != 1 || rejected != attempts-1 {
		t.Fatalf("successes=%d rejected=%d, want 1/%d", successes, rejected, attempts-1)
	}

	stored, _ := svc.GetUser(ctx, u.ID)
	if stored.XP != 25 {
		t.Fatalf("xp=%d, want 25", stored.XP)
	}
	if fc.calls() != 1 {
		t.Fatalf("coach calls=%d, want 1", fc.calls())
	}
}

func TestConcurrentCompletionsForOneUserAccumulate(t *testing.T) {
	svc, cleanup := newTestService(t, &fakeCoach{})
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 0)
	const n = 10
	ids := make([]string, n)
	for i := range ids {
		ids[i] = createTask(t, svc, u.ID, "Chunk", 15).ID
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := svc.CompleteTask(ctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	stored, _ := svc.GetUser(ctx, u.ID)
	if stored.XP != n*15 || stored.Level != LevelForXP(n*15) {
		t.Fatalf("user=%+v, want xp %d", stored, n*15)
	}
}

func TestAvatarStateDefaults(t *testing.T) {
	svc, cleanup := newTestService(t, &fakeCoach{})
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 0)
	view, err := svc.AvatarState(ctx, u.ID)
	if err != nil {
		t.Fatalf("AvatarState: %v", err)
	}
	if view.Animation != storage.AnimationIdle || view.Mood != u.AvatarMood {
		t.Fatalf("view=%+v, want idle/%s", view, u.AvatarMood)
	}
	if !strings.Contains(view.Message, "Ada") {
		t.Fatalf("greeting=%q, want user name", view.Message)
	}
	if view.XP != 0 || view.Level != 1 {
		t.Fatalf("view xp/level=%d/%d", view.XP, view.Level)
	}

	if _, err := svc.AvatarState(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, cleanup := newTestService(t, &fakeCoach{})
	defer cleanup()
	ctx := context.Background()

	u := createUser(t, svc, 0)

	if _, err := svc.CreateTask(ctx, CreateTaskInput{UserID: u.ID, Title: "   "}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank title err=%v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{UserID: u.ID, Title: "x", XPReward: -5}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative reward err=%v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{UserID: "nobody", Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user err=%v", err)
	}

	task := createTask(t, svc, u.ID, "Default reward", 0)
	if task.XPReward != DefaultXPReward {
		t.Fatalf("reward=%d, want %d", task.XPReward, DefaultXPReward)
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
}
