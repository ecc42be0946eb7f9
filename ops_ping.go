package comet

// Ping renders the informational ping frame. It touches no shared state,
// so unlike every other verb it never round-trips through the core
// goroutine.
func (c *Core) Ping(cb string) Frame {
	return FormatPing(cb, c.cfg.PollingTimeout)
}

// DefaultCallback is the cb value sub and ping fall back to when the
// caller supplies none.
func (c *Core) DefaultCallback() string {
	return c.cfg.DefaultJSONPCallback
}
