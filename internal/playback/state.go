// Package playback owns the logical player state: the playlist being
// traversed, the current track, transport scalars, shuffle order and
// repeat mode. Every mutation is an explicit transition on the Store;
// the audio device never writes here except through the device
// synchronizer's inbound transitions.
package playback

import (
	"time"

	"github.com/jmorand/stratus/internal/catalog"
)

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

// Next returns the following mode in the cycle off -> one -> all -> off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatOff
	}
}

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatOne:
		return "One"
	case RepeatAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Direction selects which neighbor Advance moves to.
type Direction int

const (
	Next Direction = iota
	Previous
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Next:
		return "Next"
	case Previous:
		return "Previous"
	default:
		return "Unknown"
	}
}

// State is a snapshot of the logical player.
//
// Invariants:
//   - CurrentIndex is -1 or a valid index into Playlist.
//   - Current equals Playlist[CurrentIndex] whenever CurrentIndex >= 0.
//   - ShuffleOrder, when non-nil, is a permutation of [0..len(Playlist)-1]
//     and ShuffleOrder[ShufflePosition] == CurrentIndex.
type State struct {
	Playlist     []catalog.Track
	Current      *catalog.Track
	CurrentIndex int

	Playing  bool
	Position time.Duration
	Duration time.Duration
	Volume   float64

	Repeat          RepeatMode
	Shuffle         bool
	ShuffleOrder    []int
	ShufflePosition int
}

// HasTrack returns true if a track is selected.
func (s State) HasTrack() bool {
	return s.Current != nil
}

// clone returns a deep copy safe to hand to readers.
func (s State) clone() State {
	out := s
	out.Playlist = make([]catalog.Track, len(s.Playlist))
	copy(out.Playlist, s.Playlist)
	if s.Current != nil {
		cur := *s.Current
		out.Current = &cur
	}
	if s.ShuffleOrder != nil {
		out.ShuffleOrder = make([]int, len(s.ShuffleOrder))
		copy(out.ShuffleOrder, s.ShuffleOrder)
	}
	return out
}
