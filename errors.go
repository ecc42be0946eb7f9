package comet

import "errors"

// Errors returned from Core operations. comethttp maps each to the exact
// response shape spec'd for it; no other error ever crosses the
// operation boundary.
var (
	// ErrTooManyChannels is returned by Sign (and surfaces in Sub's
	// auto-create path) when the channel pool is exhausted.
	ErrTooManyChannels = errors.New("too many channels")

	// ErrChannelNotConnected is returned by Pub and Close when the named
	// channel does not exist or is not currently live.
	ErrChannelNotConnected = errors.New("channel not connected")
)
