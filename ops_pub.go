package comet

// PubParams are the query parameters accepted by pub.
type PubParams struct {
	CName    string
	Content  string
	Callback string
}

type pubRequest struct {
	params PubParams
	reply  chan pubResult
}

type pubResult struct {
	ack Frame
	err error
}

// Pub publishes content to cname, flushing it to every currently parked
// subscriber. It returns ErrChannelNotConnected if the channel does not
// exist or has never been signed/sub'd (idle == -1).
func (c *Core) Pub(p PubParams) (Frame, error) {
	reply := make(chan pubResult, 1)
	c.pubReqCh <- pubRequest{params: p, reply: reply}
	res := <-reply
	return res.ack, res.err
}

func (c *Core) handlePub(p PubParams) (Frame, error) {
	ch := c.pool.byName(p.CName)
	if ch == nil || ch.idle == idleNever {
		return nil, ErrChannelNotConnected
	}
	ack := FormatPubAck(p.Callback)
	_, released := ch.send("data", p.Content)
	c.subscribers -= len(released)
	return ack, nil
}
