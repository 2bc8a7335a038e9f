package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	TrackChanged     <-chan TrackChange
	TransportChanged <-chan TransportChange
	PlaylistChanged  <-chan PlaylistChange
	ModeChanged      <-chan ModeChange
	VolumeChanged    <-chan VolumeChange
	Error            <-chan ErrorEvent
	Done             <-chan struct{}

	// Internal write channels
	trackCh     chan TrackChange
	transportCh chan TransportChange
	playlistCh  chan PlaylistChange
	modeCh      chan ModeChange
	volumeCh    chan VolumeChange
	errorCh     chan ErrorEvent
	doneCh      chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		trackCh:     make(chan TrackChange, eventBufferSize),
		transportCh: make(chan TransportChange, eventBufferSize),
		playlistCh:  make(chan PlaylistChange, eventBufferSize),
		modeCh:      make(chan ModeChange, eventBufferSize),
		volumeCh:    make(chan VolumeChange, eventBufferSize),
		errorCh:     make(chan ErrorEvent, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.TrackChanged = s.trackCh
	s.TransportChanged = s.transportCh
	s.PlaylistChanged = s.playlistCh
	s.ModeChanged = s.modeCh
	s.VolumeChanged = s.volumeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendTransport sends a transport change event (non-blocking).
func (s *Subscription) sendTransport(e TransportChange) {
	select {
	case s.transportCh <- e:
	default:
	}
}

// sendPlaylist sends a playlist change event (non-blocking).
func (s *Subscription) sendPlaylist(e PlaylistChange) {
	select {
	case s.playlistCh <- e:
	default:
	}
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
}

// sendVolume sends a volume change event (non-blocking).
func (s *Subscription) sendVolume(e VolumeChange) {
	select {
	case s.volumeCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
