package comet

import "github.com/gocomet/cometd/internal/clog"

// SubParams are the query parameters accepted by sub.
type SubParams struct {
	CName    string
	Seq      uint32
	Noop     int
	Callback string // defaults to Config.DefaultJSONPCallback, applied by the caller
	Token    string
}

// SubKind distinguishes the three ways a sub request can resolve.
type SubKind int

const (
	// SubDenied means the request was rejected immediately (401 token
	// error or 429 too many subscribers); Frame holds the response.
	SubDenied SubKind = iota
	// SubBacklog means buffered messages were returned synchronously;
	// Frame holds the JSONP array. Nothing was parked.
	SubBacklog
	// SubParked means a Subscriber was allocated and parked on the
	// channel. The caller must eventually call Core.SubEnd(Sub)
	// exactly once — on connection close, or after reading exactly one
	// Frame from Sub.Release().
	SubParked
)

// SubOutcome is the result of Core.Sub.
type SubOutcome struct {
	Kind  SubKind
	Frame Frame
	Sub   *Subscriber
}

// Release returns the channel a parked subscriber will receive its one
// and only frame on (data, noop, or close). It is only valid when Kind
// is SubParked.
func (o SubOutcome) Release() <-chan Frame {
	return o.Sub.release
}

type subRequest struct {
	params SubParams
	reply  chan subResult
}

type subResult struct {
	outcome SubOutcome
	err     error
}

// Sub admits or parks a long-poll request. The only error it returns is
// ErrTooManyChannels, when auth is AuthNone and an unknown channel needs
// to be auto-created but the pool is exhausted — every other rejection
// (unknown channel in token mode, bad token, subscriber cap) is
// represented as SubDenied, not an error, because the wire response is
// still HTTP 200.
func (c *Core) Sub(p SubParams) (SubOutcome, error) {
	reply := make(chan subResult, 1)
	c.subReqCh <- subRequest{params: p, reply: reply}
	res := <-reply
	return res.outcome, res.err
}

func (c *Core) handleSub(p SubParams) (SubOutcome, error) {
	ch := c.pool.byName(p.CName)
	if ch == nil && c.cfg.AuthMode == AuthNone {
		ch = c.pool.newChannel(p.CName)
		if ch == nil {
			return SubOutcome{}, ErrTooManyChannels
		}
		c.present.notify(PresenceOnline, ch.name)
	}
	if ch == nil || (c.cfg.AuthMode == AuthToken && ch.token != p.Token) {
		return SubOutcome{Kind: SubDenied, Frame: Format401(p.Callback, p.CName)}, nil
	}
	if ch.subs.len() >= c.cfg.MaxSubscribersPerChannel {
		return SubOutcome{Kind: SubDenied, Frame: Format429(p.Callback, p.CName)}, nil
	}
	ch.idle = c.cfg.ChannelIdles

	if ch.buf.len() > 0 && p.Seq != ch.seqNext {
		items, ok := ch.backlog(p.Seq)
		if ok {
			return SubOutcome{Kind: SubBacklog, Frame: FormatBacklog(p.Callback, p.CName, items)}, nil
		}
	}

	sub := c.subs.alloc()
	sub.callback = p.Callback
	sub.noopSeq = p.Noop
	sub.idle = 0
	ch.addSubscriber(sub, c.cfg.ChannelIdles)
	c.subscribers++
	clog.Debug("sub: parked", clog.F("cname", p.CName), clog.F("subs", ch.subs.len()))

	return SubOutcome{Kind: SubParked, Sub: sub}, nil
}

// SubEnd returns a parked subscriber to the pool. The comethttp layer
// calls it exactly once per subscriber, either after consuming the one
// frame delivered on Sub.Release(), or immediately when the client
// disconnects before any frame arrives. It is safe to call more than
// once; the second call is a no-op. This stands in for the original
// server's "deregister the close hook before releasing" rule — here the
// ended flag, not hook ordering, prevents a double release.
func (c *Core) SubEnd(sub *Subscriber) {
	c.subEndCh <- sub
}

func (c *Core) handleSubEnd(sub *Subscriber) {
	if sub.ended {
		return
	}
	sub.ended = true
	if !sub.released {
		if sub.channel != nil && sub.channel.delSubscriber(sub) {
			c.subscribers--
		}
		sub.released = true
	}
	c.subs.put(sub)
}
