package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"avatarquest/internal/engine"
	"avatarquest/internal/storage"
	"avatarquest/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	svc    Backend
	userID string

	width  int
	height int

	user   *storage.User
	tasks  []storage.Task
	avatar *engine.AvatarView

	selected int

	lastLog string
	loading bool
	busy    bool
	err     error
}

type loadedMsg struct {
	user   *storage.User
	tasks  []storage.Task
	avatar *engine.AvatarView
	err    error
}

type completedMsg struct {
	id  string
	res *engine.CompleteResult
	err error
}

func newBoardModel(ctx context.Context, svc Backend, userID string) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		userID:  userID,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		u, err := m.svc.GetUser(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		av, err := m.svc.AvatarState(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{user: u, tasks: tasks, avatar: av}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.user = msg.user
		m.tasks = msg.tasks
		m.avatar = msg.avatar
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		m.busy = false
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completed: +%d XP (level %d, XP %d)", msg.res.XPGained, msg.res.NewLevel, msg.res.NewXP)
		if msg.res.LevelUp {
			m.lastLog += " " + ui.BadgeLevelUp
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.pending())-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.busy {
				return m, nil
			}
			pending := m.pending()
			if m.selected < 0 || m.selected >= len(pending) {
				m.lastLog = "Nothing to complete."
				return m, nil
			}
			t := pending[m.selected]
			m.busy = true
			m.lastLog = fmt.Sprintf("Completing %q…", t.Title)
			return m, m.completeCmd(t.ID)
		}
	}
	return m, nil
}

func (m boardModel) pending() []storage.Task {
	var out []storage.Task
	for _, t := range m.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func (m *boardModel) clampSelection() {
	n := len(m.pending())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	left := m.renderTasks()
	right := m.renderAvatar()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	return m.renderHeader() + "\n\n" + body + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.user == nil {
		return "Avatar Quest — loading…"
	}
	cur := engine.XPRequiredForLevel(m.user.Level)
	next := engine.XPRequiredForLevel(m.user.Level + 1)
	bar := ui.ProgressBar(m.user.XP-cur, next-cur, 30)
	return fmt.Sprintf("%s | %s | Level %d | XP %d %s",
		ui.Title.Render("Avatar Quest"), m.user.Name, m.user.Level, m.user.XP, bar)
}

func (m boardModel) renderTasks() string {
	if m.loading && m.user == nil {
		return "Loading…"
	}
	out := []string{ui.H2.Render("Pending")}
	pending := m.pending()
	if len(pending) == 0 {
		out = append(out, ui.Muted.Render("(nothing left, nice)"))
	}
	for i, t := range pending {
		cursor := "  "
		line := fmt.Sprintf("%s (+%d XP)", t.Title, t.XPReward)
		if i == m.selected {
			cursor = "> "
			line = ui.SelectedRow.Render(line)
		}
		out = append(out, cursor+line)
	}

	done := len(m.tasks) - len(pending)
	out = append(out, "", ui.Muted.Render(fmt.Sprintf("%d done", done)))
	out = append(out, "", "Keys",
		"- ↑/↓ or j/k: move",
		"- c/space/enter: complete",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(out, "\n")
}

func (m boardModel) renderAvatar() string {
	if m.avatar == nil {
		return ui.Panel.Render("Avatar\n\n…")
	}
	lines := []string{
		ui.H2.Render("Avatar"),
		ui.MoodFace(m.avatar.Mood),
		ui.AnimationText(m.avatar.Animation),
		"",
		ui.IconChat + " " + m.avatar.Message,
	}
	style := ui.Panel
	if m.width > 0 {
		w := m.width / 2
		if w < 24 {
			w = 24
		}
		style = style.Width(w)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}
