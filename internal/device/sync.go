package device

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmorand/stratus/internal/playback"
)

// defaultReadyWait bounds how long a play intent stays armed while the
// device buffers. Past it the attempt is abandoned silently; playback
// catches up on the next state change instead of a stale play firing
// long after the user moved on.
const defaultReadyWait = 500 * time.Millisecond

// errNotPlayable marks a track without a stream source.
var errNotPlayable = errors.New("track has no stream source")

// Synchronizer reconciles the logical player state with the audio device.
// The store's transitions express intent; the device reports fact. The
// synchronizer keeps nudging fact toward intent and never lets fact
// override intent except on an explicit pause or a device error.
//
// It is the only component that touches the device handle.
type Synchronizer struct {
	store     *playback.Store
	dev       Device
	log       zerolog.Logger
	readyWait time.Duration
}

// NewSynchronizer creates a synchronizer bridging store and dev.
func NewSynchronizer(store *playback.Store, dev Device, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		store:     store,
		dev:       dev,
		log:       log,
		readyWait: defaultReadyWait,
	}
}

// armedPlay is a play intent waiting on device readiness, bounded by a
// timer. time.Timer.Stop does not drain a fired timer, so arm and disarm
// both drain the channel; a missed expiry left sitting in C would lapse
// the next armed play the moment it was set.
type armedPlay struct {
	on    bool
	timer *time.Timer
}

func newArmedPlay() *armedPlay {
	t := time.NewTimer(0)
	if !t.Stop() {
		<-t.C
	}
	return &armedPlay{timer: t}
}

// C delivers the bounded-wait expiry. A receive must be followed by
// lapse(), never by drain.
func (a *armedPlay) C() <-chan time.Time { return a.timer.C }

func (a *armedPlay) armed() bool { return a.on }

func (a *armedPlay) arm(d time.Duration) {
	a.drain()
	a.on = true
	a.timer.Reset(d)
}

func (a *armedPlay) disarm() {
	a.on = false
	a.drain()
}

// lapse records that the bounded wait expired. The expiry value was just
// received from C, so there is nothing left to drain.
func (a *armedPlay) lapse() { a.on = false }

func (a *armedPlay) drain() {
	if !a.timer.Stop() {
		select {
		case <-a.timer.C:
		default:
		}
	}
}

// Seek moves both the logical position and the device position. The UI
// calls this for slider drags; device-originated pulses flow the other
// way and never come back through here.
func (y *Synchronizer) Seek(pos time.Duration) {
	y.store.SetPosition(pos)
	y.dev.Seek(pos)
}

// Run processes store events (outbound intent) and device events
// (inbound fact) until ctx is done. Every inbound event is checked
// against the identity of the current load before it is allowed to touch
// logical state; completions of superseded loads are discarded.
func (y *Synchronizer) Run(ctx context.Context) {
	sub := y.store.Subscribe()

	// Push the restored volume to the device before anything plays.
	y.dev.SetVolume(y.store.Snapshot().Volume)

	var (
		currentLoad  LoadID
		currentTrack string
	)
	pending := newArmedPlay()

	// tryPlay requests playback, arming a bounded retry when the device
	// is still buffering. A failed attempt must not corrupt logical
	// state: Playing stays true, the device catches up on EventReady.
	tryPlay := func() {
		if err := y.dev.Play(); err != nil {
			if errors.Is(err, ErrNotReady) {
				pending.arm(y.readyWait)
				return
			}
			y.log.Warn().Err(err).Str("track", currentTrack).Msg("play request failed")
			return
		}
		pending.disarm()
	}

	for {
		select {
		case <-ctx.Done():
			y.dev.Stop()
			return
		case <-sub.Done:
			y.dev.Stop()
			return

		case <-pending.C():
			// Bounded wait expired; abandon the attempt silently.
			pending.lapse()

		case e := <-sub.TrackChanged:
			pending.disarm()
			if e.Current == nil || !e.Current.Playable() {
				y.dev.Stop()
				currentLoad = LoadID{}
				currentTrack = ""
				if e.Current != nil {
					y.store.SetPlaying(false)
					y.store.ReportError("play", e.Current.TrackID, errNotPlayable)
				}
				continue
			}
			currentTrack = e.Current.TrackID
			currentLoad = y.dev.Load(e.Current.TrackID, e.Current.SourceURL)
			if y.store.Snapshot().Playing {
				pending.arm(y.readyWait)
			}

		case e := <-sub.TransportChanged:
			if e.Playing {
				tryPlay()
			} else {
				pending.disarm()
				y.dev.Pause()
			}

		case e := <-sub.VolumeChanged:
			y.dev.SetVolume(e.Volume)

		case e := <-y.dev.Events():
			if e.Load != currentLoad {
				// Stale completion from a superseded load.
				y.log.Debug().Str("track", e.TrackID).Str("kind", e.Kind.String()).Msg("dropping stale device event")
				continue
			}
			switch e.Kind {
			case EventReady:
				y.store.SetDuration(e.Duration)
				if pending.armed() {
					tryPlay()
				}
			case EventPosition:
				y.store.SetPosition(e.Position)
			case EventEnded:
				y.handleEnded(e, tryPlay)
			case EventError:
				y.store.SetPlaying(false)
				y.store.ReportError("play", e.TrackID, e.Err)
				currentLoad = LoadID{}
				currentTrack = ""
			}
		}
	}
}

// handleEnded applies the repeat-mode policy to a natural end-of-track.
// The device's end signal is the only trigger; position is never compared
// against duration to guess an end.
func (y *Synchronizer) handleEnded(e Event, tryPlay func()) {
	snap := y.store.Snapshot()

	if snap.Repeat == playback.RepeatOne {
		y.store.SetPosition(0)
		y.dev.Seek(0)
		y.store.SetPlaying(true)
		tryPlay()
		return
	}

	before := snap.CurrentIndex
	y.store.Advance(playback.Next)
	after := y.store.Snapshot()
	if after.CurrentIndex == before {
		// End of a non-repeating playlist: nothing to advance to, the
		// device already stopped, so the logical transport follows.
		y.store.SetPlaying(false)
		y.store.SetPosition(0)
	}
}
