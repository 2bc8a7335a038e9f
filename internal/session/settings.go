package session

import (
	"database/sql"
	"errors"
)

// PlayerSettings are the transport settings restored on startup.
type PlayerSettings struct {
	Volume     float64
	RepeatMode int
	Shuffle    bool
}

// GetPlayerSettings returns the saved settings, or nil when none were
// saved yet (caller falls back to config defaults).
func (m *Manager) GetPlayerSettings() (*PlayerSettings, error) {
	var s PlayerSettings
	row := m.db.QueryRow(`SELECT volume, repeat_mode, shuffle FROM player_settings WHERE id = 1`)
	err := row.Scan(&s.Volume, &s.RepeatMode, &s.Shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SavePlayerSettings persists the transport settings.
func (m *Manager) SavePlayerSettings(s PlayerSettings) error {
	_, err := m.db.Exec(`
		INSERT INTO player_settings (id, volume, repeat_mode, shuffle)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			repeat_mode = excluded.repeat_mode,
			shuffle = excluded.shuffle
	`, s.Volume, s.RepeatMode, s.Shuffle)
	return err
}
