package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"avatarquest/internal/storage"
)

// Avatar Quest theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconError   = "🧨"
	IconTask    = "🗺️"
	IconTrash   = "🗑️"
	IconUser    = "👤"
	IconChat    = "💬"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// MoodFace renders a mood as an emoji plus its name.
func MoodFace(m storage.Mood) string {
	switch m {
	case storage.MoodHappy:
		return Good.Render("😊 happy")
	case storage.MoodExcited:
		return Gold.Render("🤩 excited")
	case storage.MoodSad:
		return Bad.Render("😢 sad")
	case storage.MoodTired:
		return Warn.Render("😴 tired")
	default:
		return Muted.Render("😐 " + string(m))
	}
}

func AnimationText(a storage.Animation) string {
	switch a {
	case storage.AnimationCelebrate:
		return Gold.Render("🎉 celebrate")
	case storage.AnimationHappyBounce:
		return Good.Render("🦘 happy bounce")
	default:
		return Muted.Render("💤 idle")
	}
}

func StatusText(completed bool) string {
	if completed {
		return Good.Render("done")
	}
	return Warn.Render("pending")
}

// ProgressBar renders value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
