package comet

import "github.com/google/uuid"

// SignParams are the query parameters accepted by sign.
type SignParams struct {
	CName    string
	Expires  int // seconds; <= 0 means ChannelTimeout
	Callback string
}

type signRequest struct {
	params SignParams
	reply  chan signResult
}

type signResult struct {
	frame Frame
	err   error
}

// Sign mints (or reuses) an access token for cname, creating the channel
// if it does not yet exist, and returns ErrTooManyChannels if the pool
// is exhausted. Re-signing a live channel refreshes its idle without
// changing its token.
func (c *Core) Sign(p SignParams) (Frame, error) {
	reply := make(chan signResult, 1)
	c.signReqCh <- signRequest{params: p, reply: reply}
	res := <-reply
	return res.frame, res.err
}

func (c *Core) handleSign(p SignParams) (Frame, error) {
	ch := c.pool.byName(p.CName)
	if ch == nil {
		ch = c.pool.newChannel(p.CName)
		if ch == nil {
			return nil, ErrTooManyChannels
		}
		c.present.notify(PresenceOnline, ch.name)
	}
	if ch.token == "" {
		ch.createToken(c.mintToken(p.CName, p.Expires))
	}
	ch.idle = c.cfg.signIdle(p.Expires)

	expires := p.Expires
	if expires <= 0 {
		expires = c.cfg.ChannelTimeout
	}
	frame := FormatSign(p.Callback, ch.name, ch.msgSeqMin(), ch.token, expires, c.cfg.PollingTimeout)
	return frame, nil
}

// mintToken produces an opaque channel token. By default this is a
// random UUID, exactly matching the original server's random-bytes
// token; WithSignedTokens switches it to a JWT embedding cname and
// expiry, still treated as an opaque string by every other operation.
func (c *Core) mintToken(cname string, expires int) string {
	if !c.cfg.signedTokens {
		return uuid.NewString()
	}
	return c.mintSignedToken(cname, expires)
}
