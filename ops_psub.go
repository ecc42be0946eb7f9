package comet

type psubRequest struct {
	reply chan *PresenceSubscriber
}

// PSub parks a presence subscriber, which receives a "<code> <cname>\n"
// line on every future channel online/offline transition until the
// caller releases it with PSubEnd. Unlike Sub it carries no backlog and
// is never admission-checked.
func (c *Core) PSub() *PresenceSubscriber {
	reply := make(chan *PresenceSubscriber, 1)
	c.psubReqCh <- psubRequest{reply: reply}
	return <-reply
}

func (c *Core) handlePSub() *PresenceSubscriber {
	p := newPresenceSubscriber()
	c.present.add(p)
	return p
}

// PSubEnd removes a presence subscriber, e.g. when its connection
// closes. Safe to call more than once.
func (c *Core) PSubEnd(p *PresenceSubscriber) {
	c.psubEndCh <- p
}

func (c *Core) handlePSubEnd(p *PresenceSubscriber) {
	c.present.remove(p)
}
