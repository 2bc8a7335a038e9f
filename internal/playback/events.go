package playback

import "github.com/jmorand/stratus/internal/catalog"

// TrackChange is emitted when the current track's identity changes.
//
// Emitted by:
//   - PlayTrack: when the played track differs from the previous one
//   - Advance: when a next/previous move commits
//
// NOT emitted by:
//   - ReplacePlaylist: loading another page's catalog must not interrupt
//     audio already playing from a different context
//   - SetPlaying/SetPosition: transport changes are not track changes
//
// The device synchronizer loads a new source in response to this event;
// everything else it needs (play intent, volume) travels separately.
type TrackChange struct {
	Previous      *catalog.Track
	Current       *catalog.Track
	PreviousIndex int
	Index         int
}

// TransportChange is emitted when the play/pause intent flips.
type TransportChange struct {
	Playing bool
}

// PlaylistChange is emitted when the playlist contents change.
type PlaylistChange struct {
	Tracks []catalog.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  RepeatMode
	Shuffle bool
}

// VolumeChange is emitted when the volume is set.
type VolumeChange struct {
	Volume float64
}

// ErrorEvent is emitted when playback fails outside a transition, e.g.
// a device decode error reported through the synchronizer.
type ErrorEvent struct {
	Operation string // e.g. "play", "load"
	TrackID   string
	Err       error
}
