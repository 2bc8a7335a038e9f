package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorand/stratus/internal/catalog"
	"github.com/jmorand/stratus/internal/config"
	"github.com/jmorand/stratus/internal/errmsg"
)

// tickCmd returns a command that sends tickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchPlayer returns a command that waits for the next store event and
// converts it to a message. Update re-arms it after every delivery.
func (m Model) watchPlayer() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-sub.TrackChanged:
			return playerEventMsg{}
		case <-sub.TransportChanged:
			return playerEventMsg{}
		case <-sub.PlaylistChanged:
			return playerEventMsg{}
		case <-sub.ModeChanged:
			return playerEventMsg{}
		case <-sub.VolumeChanged:
			return playerEventMsg{}
		case e := <-sub.Error:
			return playerErrorMsg{event: e}
		case <-sub.Done:
			return playerClosedMsg{}
		}
	}
}

func (m Model) loadCatalog() tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		tracks, err := client.AllTracks(context.Background())
		if err != nil {
			return loadFailedMsg{page: PageCatalog, op: errmsg.OpCatalogLoad, err: err}
		}
		return tracksLoadedMsg{page: PageCatalog, title: "All tracks", tracks: tracks}
	}
}

func (m Model) loadFavorites() tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		tracks, err := client.FavoriteTracks(context.Background())
		if err != nil {
			return loadFailedMsg{page: PageFavorites, op: errmsg.OpFavoritesLoad, err: err}
		}
		return tracksLoadedMsg{page: PageFavorites, title: "Favorites", tracks: tracks}
	}
}

func (m Model) loadSelection(sel config.SelectionConfig) tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		loaded, err := client.Selection(context.Background(), sel.ID)
		if err != nil {
			return loadFailedMsg{page: PageSelection, op: errmsg.OpSelectionLoad, err: err}
		}
		title := loaded.Title
		if title == "" {
			title = sel.Title
		}
		return tracksLoadedMsg{page: PageSelection, title: title, tracks: loaded.Tracks}
	}
}

// toggleFavorite flips the server-side favorite for track. The store is
// only updated after the server confirmed.
func (m Model) toggleFavorite(track catalog.Track) tea.Cmd {
	client := m.catalog
	page := m.page
	return func() tea.Msg {
		var err error
		if track.IsFavorite {
			err = client.RemoveFavorite(context.Background(), track.TrackID)
		} else {
			err = client.AddFavorite(context.Background(), track.TrackID)
		}
		if err != nil {
			return loadFailedMsg{page: page, op: errmsg.OpFavoriteToggle, context: track.Title, err: err}
		}
		return favoriteToggledMsg{trackID: track.TrackID, favorite: !track.IsFavorite}
	}
}

func (m Model) signin(email, password string) tea.Cmd {
	client := m.auth
	return func() tea.Msg {
		user, tokens, err := client.Signin(context.Background(), email, password)
		if err != nil {
			return signinFailedMsg{err: err}
		}
		return signedInMsg{user: user, tokens: *tokens}
	}
}

func (m Model) signup(email, password, username string) tea.Cmd {
	client := m.auth
	return func() tea.Msg {
		if _, err := client.Signup(context.Background(), email, password, username); err != nil {
			return signupFailedMsg{err: err}
		}
		return signedUpMsg{email: email}
	}
}
