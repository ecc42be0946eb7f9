package comet

import "time"

// AuthMode selects how sub admits a client to a channel.
type AuthMode int

const (
	// AuthNone lets sub auto-create any named channel and admits any
	// client; this is the original server's default.
	AuthNone AuthMode = iota
	// AuthToken requires a channel to have been sign'd, and requires a
	// matching token on every sub request.
	AuthToken
)

// DefaultJSONPCallback is used for sub/ping requests when no cb query
// parameter is supplied. pub/sign/close instead treat an absent cb as
// "do not wrap the frame in a callback" — this asymmetry exists in the
// original server and is preserved deliberately.
const DefaultJSONPCallback = "callback"

// Config holds the process-wide tunables of a Core. The zero value is
// not valid; construct via NewConfig, which applies documented defaults.
type Config struct {
	MaxChannels              int
	MaxSubscribersPerChannel int
	ChannelBufferSize        int
	PollingTimeout           int // seconds, reported to clients via ping/sign
	PollingIdles             int // sweeps a parked subscriber may idle before a noop
	ChannelTimeout           int // seconds, default sign expiry
	ChannelIdles             int // sweeper ticks an active channel is clamped up to
	CheckInterval            time.Duration
	AuthMode                 AuthMode
	DefaultJSONPCallback     string
	SubPoolSize              int

	signedTokens bool
	tokenSecret  []byte
}

// signIdle converts a sign request's requested expiry (in seconds, or
// <= 0 to mean ChannelTimeout) into a sweeper-tick idle count, the way
// the original sign operation computes channel->idle = expires /
// CHANNEL_CHECK_INTERVAL.
func (c Config) signIdle(expiresSeconds int) int {
	interval := int(c.CheckInterval / time.Second)
	if interval <= 0 {
		interval = 1
	}
	if expiresSeconds <= 0 {
		expiresSeconds = c.ChannelTimeout
	}
	return expiresSeconds / interval
}

// Option configures a Config at construction time.
type Option func(*Config)

// NewConfig builds a Config from documented defaults plus opts.
func NewConfig(opts ...Option) Config {
	c := Config{
		MaxChannels:              1024,
		MaxSubscribersPerChannel: 1000,
		ChannelBufferSize:        100,
		PollingTimeout:           30,
		PollingIdles:             10,
		ChannelTimeout:           600,
		ChannelIdles:             600,
		CheckInterval:            time.Second,
		AuthMode:                 AuthNone,
		DefaultJSONPCallback:     DefaultJSONPCallback,
		SubPoolSize:              1024,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithMaxChannels(n int) Option {
	return func(c *Config) { c.MaxChannels = n }
}

func WithMaxSubscribersPerChannel(n int) Option {
	return func(c *Config) { c.MaxSubscribersPerChannel = n }
}

func WithChannelBufferSize(n int) Option {
	return func(c *Config) { c.ChannelBufferSize = n }
}

func WithPollingTimeout(seconds int) Option {
	return func(c *Config) { c.PollingTimeout = seconds }
}

func WithPollingIdles(n int) Option {
	return func(c *Config) { c.PollingIdles = n }
}

func WithChannelTimeout(seconds int) Option {
	return func(c *Config) { c.ChannelTimeout = seconds }
}

func WithChannelIdles(n int) Option {
	return func(c *Config) { c.ChannelIdles = n }
}

func WithCheckInterval(d time.Duration) Option {
	return func(c *Config) { c.CheckInterval = d }
}

func WithAuthToken() Option {
	return func(c *Config) { c.AuthMode = AuthToken }
}

func WithDefaultJSONPCallback(cb string) Option {
	return func(c *Config) { c.DefaultJSONPCallback = cb }
}

func WithSubPoolSize(n int) Option {
	return func(c *Config) { c.SubPoolSize = n }
}

// WithSignedTokens switches channel token minting from an opaque random
// string (the default, matching the original server exactly) to a
// golang-jwt token that embeds the channel name and expiry, signed with
// secret. The token remains an opaque string from the wire's point of
// view: sign and sub still compare it byte-for-byte, so the JSONP
// grammar in frame.go is unaffected either way.
func WithSignedTokens(secret []byte) Option {
	return func(c *Config) {
		c.signedTokens = true
		c.tokenSecret = secret
	}
}
