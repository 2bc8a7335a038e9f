package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmorand/stratus/internal/playback"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	cursorRowStyle  = lipgloss.NewStyle().Reverse(true)
	playingRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.page == PageSignin {
		b.WriteString(m.signinView())
	} else {
		b.WriteString(m.listView())
	}

	b.WriteString(m.statusView())
	b.WriteString(m.playerBarView())
	return b.String()
}

func (m Model) headerView() string {
	tabs := []struct {
		page  Page
		label string
	}{
		{PageCatalog, "1 Tracks"},
		{PageFavorites, "2 Favorites"},
		{PageSelection, "3 Selections"},
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.page == m.page {
			parts = append(parts, tabActiveStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}

	who := "anonymous"
	if m.user != nil {
		who = m.user.Username
	}
	left := titleStyle.Render("stratus") + "  " + strings.Join(parts, "  ")
	right := dimStyle.Render(who)

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// listHeight is the number of track rows that fit between the header and
// the player bar.
func (m Model) listHeight() int {
	h := m.height - 7
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.pageTitle))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(dimStyle.Render("loading..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.tracks) == 0 {
		b.WriteString(dimStyle.Render("no tracks"))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.listHeight()
	top := m.cursor - visible/2
	if top > len(m.tracks)-visible {
		top = len(m.tracks) - visible
	}
	if top < 0 {
		top = 0
	}

	for i := top; i < len(m.tracks) && i < top+visible; i++ {
		t := m.tracks[i]

		fav := "  "
		if t.IsFavorite {
			fav = "♥ "
		}
		title := t.Title
		if t.TitleSuffix != "" {
			title += " " + t.TitleSuffix
		}
		row := fmt.Sprintf("%s%-40.40s  %-25.25s  %-20.20s  %6s", fav, title, t.Author, t.Album, t.DurationLabel)

		switch {
		case i == m.cursor:
			row = cursorRowStyle.Render(row)
		case m.player.Current != nil && m.player.Current.TrackID == t.TrackID:
			row = playingRowStyle.Render(row)
		case !t.Playable():
			row = dimStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) signinView() string {
	var b strings.Builder
	if m.signupMode {
		b.WriteString(titleStyle.Render("Sign up"))
	} else {
		b.WriteString(titleStyle.Render("Sign in"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.fieldView(m.email, "email"))
	if m.signupMode {
		b.WriteString(m.fieldView(m.username, "username"))
	}
	b.WriteString(m.fieldView(m.password, "password"))
	if m.signupMode {
		b.WriteString(m.fieldView(m.confirm, ""))
	}
	b.WriteString("\n")

	switch {
	case m.busy && m.signupMode:
		b.WriteString(dimStyle.Render("  signing up..."))
	case m.busy:
		b.WriteString(dimStyle.Render("  signing in..."))
	case m.signupMode:
		b.WriteString(dimStyle.Render("  enter to submit, ctrl+n to sign in instead, esc to go back"))
	default:
		b.WriteString(dimStyle.Render("  enter to submit, ctrl+n to create an account, esc to go back"))
	}
	b.WriteString("\n")
	return b.String()
}

// fieldView renders one form input plus any validation errors the
// service reported for it.
func (m Model) fieldView(in textinput.Model, field string) string {
	var b strings.Builder
	b.WriteString("  " + in.View() + "\n")
	if field == "" {
		return b.String()
	}
	for _, msg := range m.fieldErrs[field] {
		b.WriteString(errorStyle.Render("    "+msg) + "\n")
	}
	return b.String()
}

func (m Model) statusView() string {
	if m.statusMsg == "" {
		return "\n"
	}
	line := m.statusMsg
	if m.page != PageSignin {
		line += dimStyle.Render("  (press the page key to retry)")
	}
	return errorStyle.Render(line) + "\n"
}

func (m Model) playerBarView() string {
	inner := m.width - 2
	if inner < 20 {
		inner = 20
	}

	icon := "■"
	track := "nothing playing"
	timer := ""
	if m.player.Current != nil {
		if m.player.Playing {
			icon = "▶"
		} else {
			icon = "⏸"
		}
		track = m.player.Current.Title + " — " + m.player.Current.Author
		timer = formatPosition(m.player.Position) + " / " + formatPosition(m.player.Duration)
	}

	mode := fmt.Sprintf("vol %3.0f%%", m.player.Volume*100)
	if m.player.Shuffle {
		mode += "  shuf"
	}
	switch m.player.Repeat {
	case playback.RepeatOne:
		mode += "  rep1"
	case playback.RepeatAll:
		mode += "  rep"
	}

	left := fmt.Sprintf(" %s  %s", icon, track)
	right := mode
	if timer != "" {
		right = timer + "  " + mode
	}

	pad := inner - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	content := left + strings.Repeat(" ", pad) + right + " "
	return playerBarStyle.Width(inner).Render(content)
}

func formatPosition(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
