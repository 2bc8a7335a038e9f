// Package device drives the streaming audio device and keeps it in step
// with the logical player state. The device has its own asynchronous
// lifecycle (load, buffer, ready, playing, ended, error) that does not
// match the synchronous transition model of the playback store; the
// Synchronizer in this package bridges the two.
package device

import (
	"time"

	"github.com/google/uuid"
)

// LoadID tags one load of one source. Every event a device emits carries
// the LoadID of the load it belongs to, so a completion arriving after the
// source was superseded can be recognized as stale and discarded.
type LoadID = uuid.UUID

// EventKind discriminates device events.
type EventKind int

const (
	// EventReady: the device buffered enough to begin playback.
	EventReady EventKind = iota
	// EventPosition: a periodic playback position pulse.
	EventPosition
	// EventEnded: natural end of the loaded source. Device-reported;
	// never inferred from the clock.
	EventEnded
	// EventError: the device failed to fetch, decode or play the source.
	EventError
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "Ready"
	case EventPosition:
		return "Position"
	case EventEnded:
		return "Ended"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is an asynchronous device notification.
type Event struct {
	Kind     EventKind
	Load     LoadID
	TrackID  string
	Duration time.Duration // set on Ready
	Position time.Duration // set on Position
	Err      error         // set on Error
}

// Device is the streaming audio device contract.
//
// Load is asynchronous: it returns immediately with the LoadID of the new
// load, replacing whatever was loaded before; readiness, errors and the
// natural end arrive on Events. Play fails when the device is not ready
// yet; callers are expected to retry after EventReady rather than treat
// that as fatal.
type Device interface {
	Load(trackID, url string) LoadID
	Play() error
	Pause()
	Stop()
	Seek(pos time.Duration)
	SetVolume(level float64)
	Events() <-chan Event
	Close() error
}
