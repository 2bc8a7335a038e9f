package app

import (
	"time"

	"github.com/jmorand/stratus/internal/auth"
	"github.com/jmorand/stratus/internal/catalog"
	"github.com/jmorand/stratus/internal/errmsg"
	"github.com/jmorand/stratus/internal/playback"
)

// tickMsg drives the periodic redraw of the player bar; the transport
// position only changes on device pulses, which do not emit store events.
type tickMsg time.Time

// tracksLoadedMsg is sent when a page's track list finished loading.
type tracksLoadedMsg struct {
	page   Page
	title  string
	tracks []catalog.Track
}

// loadFailedMsg is sent when a fetch failed. The page keeps whatever it
// was showing; the status line renders the message with a retry hint.
// context optionally names the affected item, such as a track title.
type loadFailedMsg struct {
	page    Page
	op      errmsg.Op
	context string
	err     error
}

// favoriteToggledMsg is sent after the server confirmed a favorite change.
type favoriteToggledMsg struct {
	trackID  string
	favorite bool
}

// signedInMsg is sent after a successful sign-in.
type signedInMsg struct {
	user   *auth.User
	tokens auth.Tokens
}

// signinFailedMsg is sent when the sign-in request was rejected.
type signinFailedMsg struct {
	err error
}

// signedUpMsg is sent after a successful registration. The new account
// still has to sign in; the form switches back with the email kept.
type signedUpMsg struct {
	email string
}

// signupFailedMsg is sent when registration was rejected, possibly with
// per-field validation errors.
type signupFailedMsg struct {
	err error
}

// playerEventMsg is sent for any store event that only needs a re-render.
type playerEventMsg struct{}

// playerErrorMsg surfaces a playback error reported through the store.
type playerErrorMsg struct {
	event playback.ErrorEvent
}

// playerClosedMsg is sent when the store subscription is released.
type playerClosedMsg struct{}
