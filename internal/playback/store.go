package playback

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jmorand/stratus/internal/catalog"
)

// Store is the single authoritative container for player state. Every
// mutation is a named transition applied atomically under one lock;
// transitions are total and never fail — invalid inputs are clamped or
// ignored, not rejected.
type Store struct {
	mu    sync.RWMutex
	state State

	subs   []*Subscription
	subsMu sync.RWMutex

	intn func(n int) int
}

// NewStore creates a store with no playlist and the given initial volume.
func NewStore(volume float64) *Store {
	return &Store{
		state: State{
			CurrentIndex:    -1,
			ShufflePosition: -1,
			Volume:          clampVolume(volume),
		},
		intn: rand.IntN,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe creates a new event subscription.
func (s *Store) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close releases all subscriptions.
func (s *Store) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
}

// ReplacePlaylist swaps the traversed playlist wholesale, as happens when
// another page's track list loads. The current track and play intent are
// left alone — loading a catalog page must not interrupt audio playing
// from a different context — but the current index is re-resolved against
// the new list so the index invariant holds (it may become -1). Any
// shuffle order is discarded; regeneration waits for the next PlayTrack.
func (s *Store) ReplacePlaylist(tracks []catalog.Track) {
	s.mu.Lock()
	st := &s.state
	st.Playlist = make([]catalog.Track, len(tracks))
	copy(st.Playlist, tracks)

	st.CurrentIndex = -1
	if st.Current != nil {
		st.CurrentIndex = indexOf(st.Playlist, st.Current.TrackID)
	}
	st.ShuffleOrder = nil
	st.ShufflePosition = -1

	e := PlaylistChange{Tracks: copyTracks(st.Playlist), Index: st.CurrentIndex}
	s.mu.Unlock()

	s.emitPlaylist(e)
}

// PlayTrack starts playing track within playlist, replacing the traversal
// context. The index is resolved by TrackID; a track absent from its own
// playlist yields index -1, which is tolerated (navigation from it is a
// no-op). If shuffle is on, the order is regenerated anchored at the new
// track so it keeps its logical slot.
func (s *Store) PlayTrack(track catalog.Track, playlist []catalog.Track) {
	s.mu.Lock()
	st := &s.state

	prev := st.Current
	prevIndex := st.CurrentIndex

	st.Playlist = make([]catalog.Track, len(playlist))
	copy(st.Playlist, playlist)

	cur := track
	st.Current = &cur
	st.CurrentIndex = indexOf(st.Playlist, track.TrackID)
	st.Position = 0
	wasPlaying := st.Playing
	st.Playing = true

	if st.Shuffle && st.CurrentIndex >= 0 {
		st.ShuffleOrder, st.ShufflePosition = newShuffleOrder(s.intn, len(st.Playlist), st.CurrentIndex)
	} else {
		st.ShuffleOrder = nil
		st.ShufflePosition = -1
	}

	playlistEvent := PlaylistChange{Tracks: copyTracks(st.Playlist), Index: st.CurrentIndex}
	var trackEvent *TrackChange
	if prev == nil || !prev.Same(track) {
		eventCur := cur
		trackEvent = &TrackChange{
			Previous:      prev,
			Current:       &eventCur,
			PreviousIndex: prevIndex,
			Index:         st.CurrentIndex,
		}
	}
	transportChanged := !wasPlaying
	s.mu.Unlock()

	s.emitPlaylist(playlistEvent)
	if trackEvent != nil {
		s.emitTrack(*trackEvent)
	}
	if transportChanged {
		s.emitTransport(TransportChange{Playing: true})
	}
}

// SetPlaying records the play/pause intent.
func (s *Store) SetPlaying(playing bool) {
	s.mu.Lock()
	changed := s.state.Playing != playing
	s.state.Playing = playing
	s.mu.Unlock()

	if changed {
		s.emitTransport(TransportChange{Playing: playing})
	}
}

// SetPosition records the transport position. Negative values clamp to 0.
func (s *Store) SetPosition(pos time.Duration) {
	s.mu.Lock()
	if pos < 0 {
		pos = 0
	}
	s.state.Position = pos
	s.mu.Unlock()
}

// SetDuration records the track duration reported by the device.
func (s *Store) SetDuration(d time.Duration) {
	s.mu.Lock()
	if d < 0 {
		d = 0
	}
	s.state.Duration = d
	s.mu.Unlock()
}

// SetVolume sets the volume, clamped to [0,1].
func (s *Store) SetVolume(v float64) {
	v = clampVolume(v)
	s.mu.Lock()
	changed := s.state.Volume != v
	s.state.Volume = v
	s.mu.Unlock()

	if changed {
		s.emitVolume(VolumeChange{Volume: v})
	}
}

// CycleRepeatMode advances the repeat mode off -> one -> all -> off and
// returns the new mode.
func (s *Store) CycleRepeatMode() RepeatMode {
	s.mu.Lock()
	s.state.Repeat = s.state.Repeat.Next()
	e := ModeChange{Repeat: s.state.Repeat, Shuffle: s.state.Shuffle}
	s.mu.Unlock()

	s.emitMode(e)
	return e.Repeat
}

// ToggleShuffle flips shuffle and returns the new setting. Enabling
// generates a fresh order anchored at the current track (index 0 when no
// track is selected); disabling discards the order entirely so a stale
// permutation can never be silently reused.
func (s *Store) ToggleShuffle() bool {
	s.mu.Lock()
	st := &s.state
	st.Shuffle = !st.Shuffle

	if st.Shuffle && len(st.Playlist) > 0 {
		anchor := st.CurrentIndex
		if anchor < 0 {
			anchor = 0
		}
		st.ShuffleOrder, st.ShufflePosition = newShuffleOrder(s.intn, len(st.Playlist), anchor)
	} else {
		st.ShuffleOrder = nil
		st.ShufflePosition = -1
	}

	e := ModeChange{Repeat: st.Repeat, Shuffle: st.Shuffle}
	s.mu.Unlock()

	s.emitMode(e)
	return e.Shuffle
}

// RestoreModes seeds repeat and shuffle from persisted settings before
// any playlist exists. No shuffle order is generated; that waits for the
// first PlayTrack.
func (s *Store) RestoreModes(repeat RepeatMode, shuffle bool) {
	s.mu.Lock()
	s.state.Repeat = repeat
	s.state.Shuffle = shuffle
	e := ModeChange{Repeat: repeat, Shuffle: shuffle}
	s.mu.Unlock()

	s.emitMode(e)
}

// Advance moves to the neighboring track per the navigation rules. A
// committed move resets the position and forces the play intent on; a
// no-op leaves every field untouched.
func (s *Store) Advance(dir Direction) {
	s.mu.Lock()
	st := &s.state

	t := advanceTarget(*st, dir)
	if !t.commit {
		s.mu.Unlock()
		return
	}

	prev := st.Current
	prevIndex := st.CurrentIndex

	cur := st.Playlist[t.index]
	st.Current = &cur
	st.CurrentIndex = t.index
	st.ShufflePosition = t.shufflePos
	st.Position = 0
	wasPlaying := st.Playing
	st.Playing = true

	eventCur := cur
	trackEvent := TrackChange{
		Previous:      prev,
		Current:       &eventCur,
		PreviousIndex: prevIndex,
		Index:         st.CurrentIndex,
	}
	s.mu.Unlock()

	s.emitTrack(trackEvent)
	if !wasPlaying {
		s.emitTransport(TransportChange{Playing: true})
	}
}

// SetFavorite projects a server-confirmed favorite change onto the
// matching playlist entry and, when it is the current track, onto the
// current track as well. No network effect; the catalog client already
// made the call.
func (s *Store) SetFavorite(trackID string, favorite bool) {
	s.mu.Lock()
	st := &s.state

	for i := range st.Playlist {
		if st.Playlist[i].TrackID == trackID {
			st.Playlist[i].IsFavorite = favorite
		}
	}
	if st.Current != nil && st.Current.TrackID == trackID {
		st.Current.IsFavorite = favorite
	}

	e := PlaylistChange{Tracks: copyTracks(st.Playlist), Index: st.CurrentIndex}
	s.mu.Unlock()

	s.emitPlaylist(e)
}

// ReportError fans a playback error out to subscribers. Used by the
// device synchronizer to surface device failures.
func (s *Store) ReportError(operation, trackID string, err error) {
	s.emitError(ErrorEvent{Operation: operation, TrackID: trackID, Err: err})
}

func copyTracks(tracks []catalog.Track) []catalog.Track {
	out := make([]catalog.Track, len(tracks))
	copy(out, tracks)
	return out
}

func indexOf(tracks []catalog.Track, trackID string) int {
	for i := range tracks {
		if tracks[i].TrackID == trackID {
			return i
		}
	}
	return -1
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *Store) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *Store) emitTransport(e TransportChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTransport(e)
	}
}

func (s *Store) emitPlaylist(e PlaylistChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPlaylist(e)
	}
}

func (s *Store) emitMode(e ModeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *Store) emitVolume(e VolumeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendVolume(e)
	}
}

func (s *Store) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
