package device

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

// ErrNotReady is returned by Play when the loaded source has not finished
// buffering. Not fatal: the caller retries after EventReady.
var ErrNotReady = errors.New("device not ready")

const (
	// mixRate is the speaker's fixed output rate; every decoded stream is
	// resampled to it so the speaker is initialized exactly once.
	mixRate = beep.SampleRate(44100)

	speakerBuffer   = 100 * time.Millisecond
	positionPeriod  = 500 * time.Millisecond
	eventBuffer     = 32
	resampleQuality = 4
)

// Verify Speaker implements Device at compile time.
var _ Device = (*Speaker)(nil)

// Speaker is the beep-backed streaming device. One source is loaded at a
// time; loading streams the track over HTTP, decodes it, and feeds the
// shared speaker. All events carry the LoadID of the load they belong to.
type Speaker struct {
	mu sync.Mutex

	httpClient *http.Client
	log        zerolog.Logger
	events     chan Event

	current  LoadID
	trackID  string
	cancel   context.CancelFunc
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	ready    bool
	level    float64
	drained  atomic.Bool

	done   chan struct{}
	closed bool
}

// NewSpeaker initializes the audio output and returns the device.
func NewSpeaker(log zerolog.Logger) (*Speaker, error) {
	if err := speaker.Init(mixRate, mixRate.N(speakerBuffer)); err != nil {
		return nil, err
	}

	s := &Speaker{
		httpClient: &http.Client{},
		log:        log,
		events:     make(chan Event, eventBuffer),
		level:      1,
		done:       make(chan struct{}),
	}
	go s.positionLoop()
	return s, nil
}

// Events returns the device event channel.
func (s *Speaker) Events() <-chan Event { return s.events }

// Load replaces the loaded source. Whatever was playing stops immediately;
// readiness for the new source is reported asynchronously via EventReady
// tagged with the returned LoadID.
func (s *Speaker) Load(trackID, url string) LoadID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropCurrentLocked()

	id := uuid.New()
	s.current = id
	s.trackID = trackID

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.log.Debug().Str("track", trackID).Str("load", id.String()).Msg("loading source")
	go s.load(ctx, id, trackID, url)
	return id
}

func (s *Speaker) load(ctx context.Context, id LoadID, trackID, url string) {
	streamer, format, err := fetchAndDecode(ctx, s.httpClient, url)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded load; nobody is waiting for this source anymore.
			return
		}
		s.log.Warn().Err(err).Str("track", trackID).Msg("source load failed")
		s.emit(Event{Kind: EventError, Load: id, TrackID: trackID, Err: err})
		return
	}

	s.mu.Lock()
	if s.current != id || s.closed {
		// A newer Load replaced this one while it was buffering.
		s.mu.Unlock()
		streamer.Close()
		return
	}

	s.streamer = streamer
	s.format = format
	s.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(resampleQuality, format.SampleRate, mixRate, streamer),
		Paused:   true,
	}
	s.volume = &effects.Volume{
		Streamer: s.ctrl,
		Base:     2,
		Volume:   levelToVolume(s.level),
		Silent:   s.level <= 0,
	}
	s.ready = true
	s.drained.Store(false)
	duration := format.SampleRate.D(streamer.Len())

	s.queueLocked(id, trackID)
	s.mu.Unlock()

	s.emit(Event{Kind: EventReady, Load: id, TrackID: trackID, Duration: duration})
}

// queueLocked hands the source to the speaker. The end callback runs under
// the speaker lock, so it only flips the drained flag and emits; it must not
// take s.mu. Caller holds s.mu.
func (s *Speaker) queueLocked(id LoadID, trackID string) {
	speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
		s.drained.Store(true)
		s.emit(Event{Kind: EventEnded, Load: id, TrackID: trackID})
	})))
}

// Play unpauses the loaded source. Returns ErrNotReady while buffering.
// A source that played to its end has left the mixer; restarting it after
// a Seek requires queueing the sequence again.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || s.ctrl == nil {
		return ErrNotReady
	}
	if s.drained.CompareAndSwap(true, false) {
		speaker.Clear()
		s.queueLocked(s.current, s.trackID)
	}
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses the device without unloading the source.
func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

// Stop unloads the source entirely.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropCurrentLocked()
	s.current = LoadID{}
	s.trackID = ""
}

// Seek moves the playback position within the loaded source.
func (s *Speaker) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || s.streamer == nil {
		return
	}
	if pos < 0 {
		pos = 0
	}
	sample := s.format.SampleRate.N(pos)
	if sample >= s.streamer.Len() {
		sample = s.streamer.Len() - 1
	}
	speaker.Lock()
	if err := s.streamer.Seek(sample); err != nil {
		s.log.Warn().Err(err).Msg("seek failed")
	}
	speaker.Unlock()
}

// SetVolume sets the output volume (0.0 to 1.0).
func (s *Speaker) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	if s.volume == nil {
		return
	}
	speaker.Lock()
	s.volume.Volume = levelToVolume(level)
	s.volume.Silent = level <= 0
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	s.dropCurrentLocked()
	return nil
}

// dropCurrentLocked cancels any in-flight load and unloads the speaker.
// Caller holds s.mu.
func (s *Speaker) dropCurrentLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	speaker.Clear()
	if s.streamer != nil {
		s.streamer.Close()
		s.streamer = nil
	}
	s.ctrl = nil
	s.volume = nil
	s.ready = false
}

// positionLoop emits periodic position pulses while the device plays.
func (s *Speaker) positionLoop() {
	ticker := time.NewTicker(positionPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.ready || s.ctrl == nil || s.ctrl.Paused {
				s.mu.Unlock()
				continue
			}
			id := s.current
			trackID := s.trackID
			speaker.Lock()
			pos := s.format.SampleRate.D(s.streamer.Position())
			speaker.Unlock()
			s.mu.Unlock()

			s.emit(Event{Kind: EventPosition, Load: id, TrackID: trackID, Position: pos})
		}
	}
}

// emit sends an event without blocking; a full buffer drops the event.
func (s *Speaker) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 means unchanged, -1 half
// volume, -2 a quarter. 1.0 -> 0, 0.5 -> -1, 0 -> silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
