package comet

import (
	"time"

	"github.com/gocomet/cometd/internal/clog"
)

// Core is the single-writer state engine: one goroutine (run) owns the
// channel pool, the name index, the presence list and the live
// subscriber count. Every exported method that touches that state is a
// request/response round trip over an unbuffered channel into that
// goroutine, so callers never need a lock — the same property
// sseserver's hub gets from its own register/unregister/broadcast
// channels, generalized here to every verb but ping plus the sweeper
// tick. Ping and DefaultCallback read only the immutable config and are
// answered on the caller's goroutine.
type Core struct {
	cfg     Config
	pool    *channelPool
	subs    *subPool
	present *presenceBroadcaster

	subscribers int

	subReqCh      chan subRequest
	pubReqCh      chan pubRequest
	signReqCh     chan signRequest
	closeReqCh    chan closeRequest
	infoReqCh     chan infoRequest
	checkReqCh    chan checkRequest
	psubReqCh     chan psubRequest
	subEndCh      chan *Subscriber
	psubEndCh     chan *PresenceSubscriber
	statsCh       chan chan Stats

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCore builds a Core from cfg and starts its goroutine. Call Stop to
// shut it down.
func NewCore(cfg Config) *Core {
	c := &Core{
		cfg:        cfg,
		pool:       newChannelPool(cfg.MaxChannels, cfg.ChannelBufferSize),
		subs:       newSubPool(cfg.SubPoolSize),
		present:    newPresenceBroadcaster(),
		subReqCh:   make(chan subRequest),
		pubReqCh:   make(chan pubRequest),
		signReqCh:  make(chan signRequest),
		closeReqCh: make(chan closeRequest),
		infoReqCh:  make(chan infoRequest),
		checkReqCh: make(chan checkRequest),
		psubReqCh:  make(chan psubRequest),
		subEndCh:   make(chan *Subscriber),
		psubEndCh:  make(chan *PresenceSubscriber),
		statsCh:    make(chan chan Stats),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go c.run()
	return c
}

// Stop halts the core goroutine. It does not wait for parked
// subscribers to be released; callers that need a clean drain should
// Close every channel first.
func (c *Core) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *Core) run() {
	defer close(c.doneCh)

	interval := c.cfg.CheckInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return

		case <-ticker.C:
			c.sweep()

		case req := <-c.subReqCh:
			outcome, err := c.handleSub(req.params)
			req.reply <- subResult{outcome: outcome, err: err}

		case req := <-c.pubReqCh:
			ack, err := c.handlePub(req.params)
			req.reply <- pubResult{ack: ack, err: err}

		case req := <-c.signReqCh:
			frame, err := c.handleSign(req.params)
			req.reply <- signResult{frame: frame, err: err}

		case req := <-c.closeReqCh:
			seqNext, err := c.handleClose(req.params)
			req.reply <- closeResult{seqNext: seqNext, err: err}

		case req := <-c.infoReqCh:
			req.reply <- c.handleInfo(req.cname)

		case req := <-c.checkReqCh:
			req.reply <- c.handleCheck(req.cname)

		case req := <-c.psubReqCh:
			req.reply <- c.handlePSub()

		case sub := <-c.subEndCh:
			c.handleSubEnd(sub)

		case psub := <-c.psubEndCh:
			c.handlePSubEnd(psub)

		case reply := <-c.statsCh:
			reply <- Stats{
				Channels:            c.pool.channelCount(),
				Subscribers:         c.subscribers,
				PresenceSubscribers: c.present.count(),
			}
		}
	}
}

// sweep ages every used channel and its subscribers by one tick, the
// direct analogue of Server::check_timeout in the original server.
func (c *Core) sweep() {
	for _, ch := range c.pool.usedSnapshot() {
		if ch.subs.len() == 0 {
			ch.idle--
			if ch.idle < 0 {
				name := ch.name
				clog.Debug("sweep: freeing idle channel", clog.F("cname", name))
				c.pool.freeChannel(ch)
				c.present.notify(PresenceOffline, name)
			}
			continue
		}
		// a channel with active subscribers never ages out; clamp up.
		if ch.idle < c.idleFloor() {
			ch.idle = c.idleFloor()
		}

		for _, s := range ch.subs.snapshot() {
			s.idle++
			if s.idle <= c.cfg.PollingIdles {
				continue
			}
			clog.Debug("sweep: noop idle subscriber", clog.F("cname", ch.name), clog.F("idle", s.idle))
			frame := FormatNoop(s.callback, ch.name, s.noopSeq)
			s.release <- frame
			s.released = true
			ch.delSubscriber(s)
			c.subscribers--
		}
	}
}

// idleFloor is the idle value a live channel with active subscribers is
// clamped up to every sweep: spec.md calls this channel_idles.
func (c *Core) idleFloor() int {
	return c.cfg.ChannelIdles
}

// Stats is a snapshot of process-wide counters, the same ones the info
// operation reports without a cname, suitable for exposing via expvar
// or a status endpoint (the admin package uses it).
type Stats struct {
	Channels            int
	Subscribers         int
	PresenceSubscribers int
}

func (c *Core) Stats() Stats {
	reply := make(chan Stats, 1)
	c.statsCh <- reply
	return <-reply
}
