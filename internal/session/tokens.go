package session

import (
	"database/sql"
	"errors"

	"github.com/jmorand/stratus/internal/auth"
)

// Session is a persisted sign-in: token pair plus the account profile.
type Session struct {
	Tokens auth.Tokens
	User   auth.User
}

// GetSession returns the saved session, or nil when nobody is signed in.
func (m *Manager) GetSession() (*Session, error) {
	var s Session
	row := m.db.QueryRow(`
		SELECT access_token, refresh_token, user_id, username, email
		FROM session WHERE id = 1
	`)
	err := row.Scan(&s.Tokens.Access, &s.Tokens.Refresh, &s.User.ID, &s.User.Username, &s.User.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.Tokens.Access == "" && s.Tokens.Refresh == "" {
		return nil, nil
	}
	return &s, nil
}

// SaveSession persists a sign-in.
func (m *Manager) SaveSession(s Session) error {
	_, err := m.db.Exec(`
		INSERT INTO session (id, access_token, refresh_token, user_id, username, email)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email
	`, s.Tokens.Access, s.Tokens.Refresh, s.User.ID, s.User.Username, s.User.Email)
	return err
}

// SaveAccessToken updates just the access token after a refresh.
func (m *Manager) SaveAccessToken(access string) error {
	_, err := m.db.Exec(`UPDATE session SET access_token = ? WHERE id = 1`, access)
	return err
}

// ClearSession signs the user out.
func (m *Manager) ClearSession() error {
	_, err := m.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
