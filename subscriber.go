package comet

// Subscriber is a parked long-poll request awaiting exactly one of a
// data frame, a noop, or a close frame. The core never touches a
// network connection directly: release carries the fully-rendered Frame
// out to whichever goroutine is blocked on the other end (see
// comethttp's Server.handleSub), mirroring how sseserver's connection.writer()
// blocks on c.send.
type Subscriber struct {
	channel  *Channel
	callback string
	noopSeq  int
	idle     int // ticks since park; noop fires once idle > PollingIdles

	release  chan Frame
	released bool // a frame has been delivered (or will never be); set by the core
	ended    bool // SubEnd has run; guards pool recycling against a double call
}

func newSubscriber() *Subscriber {
	return &Subscriber{release: make(chan Frame, 1)}
}

func (s *Subscriber) reset() {
	s.channel = nil
	s.callback = ""
	s.noopSeq = 0
	s.idle = 0
	s.released = false
	s.ended = false
	// drain any stale frame left from a prior life of this struct.
	select {
	case <-s.release:
	default:
	}
}

// subPool recycles Subscriber allocations, the idiomatic equivalent of
// the original server's fixed-size sub_pool.pre_alloc(1024): avoid
// allocation churn across what may be thousands of polls per second,
// without imposing a hard cap (Core.handleSub, not the pool, enforces
// max_subscribers_per_channel).
type subPool struct {
	free []*Subscriber
}

func newSubPool(preAlloc int) *subPool {
	p := &subPool{free: make([]*Subscriber, 0, preAlloc)}
	for i := 0; i < preAlloc; i++ {
		p.free = append(p.free, newSubscriber())
	}
	return p
}

func (p *subPool) alloc() *Subscriber {
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		s.ended = false
		return s
	}
	return newSubscriber()
}

func (p *subPool) put(s *Subscriber) {
	s.reset()
	p.free = append(p.free, s)
}
