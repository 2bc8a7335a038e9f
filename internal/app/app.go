// Package app is the bubbletea front end: page navigation, the track
// list, the player bar and the sign-in form. All player state lives in
// the playback store; the model only holds view state and bridges store
// events into the tea loop.
package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jmorand/stratus/internal/auth"
	"github.com/jmorand/stratus/internal/catalog"
	"github.com/jmorand/stratus/internal/config"
	"github.com/jmorand/stratus/internal/device"
	"github.com/jmorand/stratus/internal/playback"
	"github.com/jmorand/stratus/internal/session"
)

// Page identifies the visible screen.
type Page int

const (
	PageCatalog Page = iota
	PageFavorites
	PageSelection
	PageSignin
)

// Deps carries everything the model needs, wired up in main.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Catalog  *catalog.Client
	Auth     *auth.Client
	Tokens   *auth.TokenSource
	Sessions *session.Manager
	Store    *playback.Store
	Sync     *device.Synchronizer
	User     *auth.User // restored session profile, nil when anonymous
}

// Model is the root application model.
type Model struct {
	cfg      *config.Config
	log      zerolog.Logger
	catalog  *catalog.Client
	auth     *auth.Client
	tokens   *auth.TokenSource
	sessions *session.Manager
	store    *playback.Store
	sync     *device.Synchronizer
	sub      *playback.Subscription

	user *auth.User

	page      Page
	prevPage  Page
	pageTitle string
	tracks    []catalog.Track
	cursor    int
	selection int // cursor into cfg.Selections for the selection page
	loading   bool
	statusMsg string

	player playback.State

	email      textinput.Model
	username   textinput.Model
	password   textinput.Model
	confirm    textinput.Model
	focus      int
	signupMode bool // the auth form registers instead of signing in
	fieldErrs  auth.FieldErrors
	busy       bool // an auth request is in flight

	width  int
	height int
}

// New creates the root model. The store subscription taken here is
// released when the store closes.
func New(d Deps) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.CharLimit = 100
	confirm.EchoMode = textinput.EchoPassword

	return Model{
		cfg:       d.Config,
		log:       d.Log,
		catalog:   d.Catalog,
		auth:      d.Auth,
		tokens:    d.Tokens,
		sessions:  d.Sessions,
		store:     d.Store,
		sync:      d.Sync,
		sub:       d.Store.Subscribe(),
		user:      d.User,
		page:      PageCatalog,
		pageTitle: "All tracks",
		loading:   true,
		player:    d.Store.Snapshot(),
		email:     email,
		username:  username,
		password:  password,
		confirm:   confirm,
	}
}

// authFields lists the form inputs in focus order for the active mode.
func (m *Model) authFields() []*textinput.Model {
	if m.signupMode {
		return []*textinput.Model{&m.email, &m.username, &m.password, &m.confirm}
	}
	return []*textinput.Model{&m.email, &m.password}
}

// setFocus moves form focus to field i, wrapping at either end.
func (m *Model) setFocus(i int) {
	fields := m.authFields()
	if i < 0 {
		i = len(fields) - 1
	}
	if i >= len(fields) {
		i = 0
	}
	m.focus = i
	for _, f := range []*textinput.Model{&m.email, &m.username, &m.password, &m.confirm} {
		f.Blur()
	}
	fields[i].Focus()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.watchPlayer(), tickCmd())
}

// Authenticated reports whether a user session is active.
func (m Model) Authenticated() bool {
	return m.tokens != nil && m.tokens.Authenticated()
}

// saveSettings persists the transport settings. Failures are logged,
// never surfaced; losing a volume preference is not worth a status line.
func (m Model) saveSettings() {
	if m.sessions == nil {
		return
	}
	st := m.store.Snapshot()
	err := m.sessions.SavePlayerSettings(session.PlayerSettings{
		Volume:     st.Volume,
		RepeatMode: int(st.Repeat),
		Shuffle:    st.Shuffle,
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("saving player settings failed")
	}
}
