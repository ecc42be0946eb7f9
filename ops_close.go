package comet

// CloseParams are the query parameters accepted by close.
type CloseParams struct {
	CName string
}

type closeRequest struct {
	params CloseParams
	reply  chan closeResult
}

type closeResult struct {
	seqNext uint32
	err     error
}

// Close acknowledges with the channel's current seq_next and, if the
// channel is live, flushes a close frame to every parked subscriber and
// frees the channel. It returns ErrChannelNotConnected if cname names no
// channel. The acknowledgement is plain text, never JSONP-wrapped — see
// FormatCloseAck.
func (c *Core) Close(p CloseParams) (uint32, error) {
	reply := make(chan closeResult, 1)
	c.closeReqCh <- closeRequest{params: p, reply: reply}
	res := <-reply
	return res.seqNext, res.err
}

func (c *Core) handleClose(p CloseParams) (uint32, error) {
	ch := c.pool.byName(p.CName)
	if ch == nil {
		return 0, ErrChannelNotConnected
	}
	seqNext := ch.seqNext

	if ch.idle != idleNever {
		_, released := ch.send("close", "")
		c.subscribers -= len(released)
		c.pool.freeChannel(ch)
		c.present.notify(PresenceOffline, p.CName)
	}
	return seqNext, nil
}
