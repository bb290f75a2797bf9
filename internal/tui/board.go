package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"avatarquest/internal/engine"
	"avatarquest/internal/storage"
)

// Backend is the slice of engine.Service the board needs.
type Backend interface {
	GetUser(ctx context.Context, id string) (*storage.User, error)
	ListTasks(ctx context.Context, userID string) ([]storage.Task, error)
	CompleteTask(ctx context.Context, id string) (*engine.CompleteResult, error)
	AvatarState(ctx context.Context, userID string) (*engine.AvatarView, error)
}

func RunBoard(ctx context.Context, svc Backend, userID string, out io.Writer) error {
	m := newBoardModel(ctx, svc, userID)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
