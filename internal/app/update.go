package app

import (
	"errors"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorand/stratus/internal/auth"
	"github.com/jmorand/stratus/internal/catalog"
	"github.com/jmorand/stratus/internal/errmsg"
	"github.com/jmorand/stratus/internal/playback"
	"github.com/jmorand/stratus/internal/session"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

// usernamePattern matches the account names the service accepts.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.player = m.store.Snapshot()
		return m, tickCmd()

	case playerEventMsg:
		m.player = m.store.Snapshot()
		return m, m.watchPlayer()

	case playerErrorMsg:
		m.player = m.store.Snapshot()
		m.statusMsg = errmsg.Format(errmsg.OpPlaybackStart, msg.event.Err)
		return m, m.watchPlayer()

	case playerClosedMsg:
		return m, nil

	case tracksLoadedMsg:
		return m.handleTracksLoaded(msg)

	case loadFailedMsg:
		return m.handleLoadFailed(msg)

	case favoriteToggledMsg:
		m.store.SetFavorite(msg.trackID, msg.favorite)
		for i := range m.tracks {
			if m.tracks[i].TrackID == msg.trackID {
				m.tracks[i].IsFavorite = msg.favorite
			}
		}
		// The favorites page shows a server query; an unfavorited track
		// no longer belongs on it.
		if m.page == PageFavorites && !msg.favorite {
			return m, m.loadFavorites()
		}
		return m, nil

	case signedInMsg:
		return m.handleSignedIn(msg)

	case signinFailedMsg:
		m.busy = false
		m.statusMsg = errmsg.Format(errmsg.OpSignin, msg.err)
		return m, nil

	case signedUpMsg:
		m.busy = false
		m.signupMode = false
		m.fieldErrs = nil
		m.statusMsg = "Account created, sign in to continue"
		m.email.SetValue(msg.email)
		m.password.SetValue("")
		m.confirm.SetValue("")
		m.setFocus(0)
		return m, nil

	case signupFailedMsg:
		m.busy = false
		m.statusMsg = errmsg.Format(errmsg.OpSignup, msg.err)
		var apiErr *auth.APIError
		if errors.As(msg.err, &apiErr) {
			m.fieldErrs = apiErr.FieldErrors
		}
		return m, nil

	case tea.KeyMsg:
		if m.page == PageSignin {
			return m.updateSignin(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) handleTracksLoaded(msg tracksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.page != m.page {
		// The user switched pages while this load was in flight.
		return m, nil
	}
	m.loading = false
	m.statusMsg = ""
	m.tracks = msg.tracks
	m.pageTitle = msg.title
	if m.cursor >= len(m.tracks) {
		m.cursor = len(m.tracks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.store.ReplacePlaylist(msg.tracks)
	return m, nil
}

func (m Model) handleLoadFailed(msg loadFailedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.busy = false
	if errors.Is(msg.err, catalog.ErrAuthRequired) {
		return m.openSignin("Sign in to continue")
	}
	m.statusMsg = errmsg.FormatWith(msg.op, msg.context, msg.err)
	return m, nil
}

func (m Model) handleSignedIn(msg signedInMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.user = msg.user
	m.tokens.SetTokens(msg.tokens)
	if m.sessions != nil {
		if err := m.sessions.SaveSession(session.Session{Tokens: msg.tokens, User: *msg.user}); err != nil {
			m.log.Warn().Err(err).Msg("persisting session failed")
		}
	}
	m.statusMsg = ""
	m.password.SetValue("")
	return m.openPage(m.prevPage)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.saveSettings()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.cursor < len(m.tracks) {
			m.store.PlayTrack(m.tracks[m.cursor], m.tracks)
		}
		return m, nil

	case " ":
		if m.player.HasTrack() {
			m.store.SetPlaying(!m.player.Playing)
		} else if m.cursor < len(m.tracks) {
			m.store.PlayTrack(m.tracks[m.cursor], m.tracks)
		}
		return m, nil

	case "n":
		m.store.Advance(playback.Next)
		return m, nil

	case "p":
		m.store.Advance(playback.Previous)
		return m, nil

	case "s":
		m.store.ToggleShuffle()
		m.saveSettings()
		return m, nil

	case "r":
		m.store.CycleRepeatMode()
		m.saveSettings()
		return m, nil

	case "+", "=":
		m.store.SetVolume(m.player.Volume + volumeStep)
		m.saveSettings()
		return m, nil

	case "-":
		m.store.SetVolume(m.player.Volume - volumeStep)
		m.saveSettings()
		return m, nil

	case "left":
		return m.seekBy(-seekStep)

	case "right":
		return m.seekBy(seekStep)

	case "f":
		if m.cursor >= len(m.tracks) {
			return m, nil
		}
		if !m.Authenticated() {
			return m.openSignin("Sign in to manage favorites")
		}
		return m, m.toggleFavorite(m.tracks[m.cursor])

	case "u":
		if m.Authenticated() {
			return m.signOut()
		}
		return m.openSignin("")

	case "1":
		return m.openPage(PageCatalog)

	case "2":
		return m.openPage(PageFavorites)

	case "3":
		if m.page == PageSelection && len(m.cfg.Selections) > 0 {
			// Already there: cycle through the configured selections.
			m.selection = (m.selection + 1) % len(m.cfg.Selections)
		}
		return m.openPage(PageSelection)
	}

	return m, nil
}

func (m Model) updateSignin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.saveSettings()
		return m, tea.Quit

	case "esc":
		m.statusMsg = ""
		m.fieldErrs = nil
		return m.openPage(m.prevPage)

	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil

	case "ctrl+n":
		m.signupMode = !m.signupMode
		m.statusMsg = ""
		m.fieldErrs = nil
		m.setFocus(0)
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}
		if m.signupMode {
			return m.submitSignup()
		}
		if m.email.Value() == "" || m.password.Value() == "" {
			m.statusMsg = "Enter email and password"
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.signin(m.email.Value(), m.password.Value())
	}

	var cmd tea.Cmd
	fields := m.authFields()
	if m.focus < len(fields) {
		*fields[m.focus], cmd = fields[m.focus].Update(msg)
	}
	return m, cmd
}

// submitSignup validates the registration form the way the web client
// does before any request leaves the machine.
func (m Model) submitSignup() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	if email == "" || username == "" || password == "" || m.confirm.Value() == "" {
		m.statusMsg = "Fill in every field"
		return m, nil
	}
	if !usernamePattern.MatchString(username) {
		m.statusMsg = "Invalid username"
		m.fieldErrs = auth.FieldErrors{
			"username": {"Only letters, digits and @ . + - _ are allowed"},
		}
		return m, nil
	}
	if password != m.confirm.Value() {
		m.statusMsg = "Passwords do not match"
		return m, nil
	}

	m.busy = true
	m.statusMsg = ""
	m.fieldErrs = nil
	return m, m.signup(email, password, username)
}

// openPage switches to page and kicks off its load.
func (m Model) openPage(page Page) (tea.Model, tea.Cmd) {
	if page == PageSignin {
		return m.openSignin("")
	}
	m.page = page
	m.loading = true
	m.statusMsg = ""
	m.cursor = 0
	switch page {
	case PageFavorites:
		if !m.Authenticated() {
			return m.openSignin("Sign in to see favorites")
		}
		m.pageTitle = "Favorites"
		return m, m.loadFavorites()
	case PageSelection:
		if len(m.cfg.Selections) == 0 {
			m.loading = false
			m.pageTitle = "Selections"
			m.tracks = nil
			m.statusMsg = "No selections configured"
			return m, nil
		}
		sel := m.cfg.Selections[m.selection]
		m.pageTitle = sel.Title
		return m, m.loadSelection(sel)
	default:
		m.pageTitle = "All tracks"
		return m, m.loadCatalog()
	}
}

// openSignin shows the sign-in form, remembering where to return to.
func (m Model) openSignin(hint string) (tea.Model, tea.Cmd) {
	if m.page != PageSignin {
		m.prevPage = m.page
	}
	m.page = PageSignin
	m.loading = false
	m.statusMsg = hint
	m.signupMode = false
	m.fieldErrs = nil
	m.setFocus(0)
	return m, nil
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.tokens.Clear()
	m.user = nil
	if m.sessions != nil {
		if err := m.sessions.ClearSession(); err != nil {
			m.log.Warn().Err(err).Msg("clearing session failed")
		}
	}
	m.statusMsg = "Signed out"
	if m.page == PageFavorites {
		return m.openPage(PageCatalog)
	}
	return m, nil
}

func (m Model) seekBy(delta time.Duration) (tea.Model, tea.Cmd) {
	if !m.player.HasTrack() {
		return m, nil
	}
	pos := m.player.Position + delta
	if pos < 0 {
		pos = 0
	}
	if m.player.Duration > 0 && pos > m.player.Duration {
		pos = m.player.Duration
	}
	m.sync.Seek(pos)
	m.player.Position = pos
	return m, nil
}
