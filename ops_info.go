package comet

type infoRequest struct {
	cname string
	reply chan Frame
}

type checkRequest struct {
	cname string
	reply chan Frame
}

// Info reports subscriber counts: per-channel when cname is non-empty
// (0 subscribers, not an error, if the channel does not exist), or
// process-wide when cname is empty.
func (c *Core) Info(cname string) Frame {
	reply := make(chan Frame, 1)
	c.infoReqCh <- infoRequest{cname: cname, reply: reply}
	return <-reply
}

func (c *Core) handleInfo(cname string) Frame {
	if cname == "" {
		return FormatInfoGlobal(c.pool.channelCount(), c.subscribers)
	}
	ch := c.pool.byName(cname)
	subs := 0
	if ch != nil {
		subs = ch.subs.len()
	}
	return FormatInfoChannel(cname, subs)
}

// Check reports whether cname names a live channel (present, idle !=
// -1). An empty cname is looked up like any other name, so it is live
// if a channel was created under the empty name (e.g. by a sub with no
// cname in AuthNone mode).
func (c *Core) Check(cname string) Frame {
	reply := make(chan Frame, 1)
	c.checkReqCh <- checkRequest{cname: cname, reply: reply}
	return <-reply
}

func (c *Core) handleCheck(cname string) Frame {
	ch := c.pool.byName(cname)
	live := ch != nil && ch.idle != idleNever
	return FormatCheck(cname, live)
}
