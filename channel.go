package comet

import (
	"github.com/gocomet/cometd/seq"
)

// idleNever marks a slot that has never been signed/used: present in the
// slot array, sitting on the free list.
const idleNever = -1

// Channel is a named rendezvous with a bounded recent-message buffer and
// a set of parked long-poll subscribers. Channel lives inside a fixed
// slot array owned by a pool; id is its stable index into that array and
// never changes across the channel's reuse under different names.
type Channel struct {
	id      int
	name    string
	token   string
	seqNext uint32 // seq of the next message to be published
	buf     msgRing
	subs    parkedSet[Subscriber]
	idle    int // -1: free; >=0: live, see spec.md §3
}

func newChannelSlot(id int, bufSize int) *Channel {
	return &Channel{
		id:      id,
		seqNext: 1, // conventionally starts at 1; never reset by reset()
		buf:     newMsgRing(bufSize),
		subs:    newParkedSet[Subscriber](),
		idle:    idleNever,
	}
}

// msgSeqMin returns the sequence number of the oldest buffered message:
// seq_next - len(msg_buffer).
func (c *Channel) msgSeqMin() uint32 {
	return c.seqNext - uint32(c.buf.len())
}

// addSubscriber parks s on the channel and refreshes idle so an actively
// subscribed channel never ages out from under its subscribers.
func (c *Channel) addSubscriber(s *Subscriber, channelIdles int) {
	s.channel = c
	c.subs.add(s)
	c.idle = channelIdles
}

func (c *Channel) delSubscriber(s *Subscriber) bool {
	return c.subs.remove(s)
}

// createToken assigns tok as this channel's access token. Callers only
// invoke this when the token is currently empty; see sign.
func (c *Channel) createToken(tok string) {
	c.token = tok
}

// send appends content to the message ring (unless kind is "close", which
// is delivered but never buffered), advances seqNext, and renders one
// frame per currently parked subscriber using that subscriber's own
// JSONP callback. It returns the message's own sequence number and the
// subscribers that were released by the flush, for the caller to update
// global bookkeeping (Core.subscribers). They are not returned to the
// pool here; that happens only in Core.SubEnd.
func (c *Channel) send(kind, content string) (msgSeq uint32, released []*Subscriber) {
	msgSeq = c.seqNext
	if kind != "close" {
		c.buf.push(content)
	}
	c.seqNext++

	released = c.subs.snapshot()
	for _, s := range released {
		var frame Frame
		switch kind {
		case "close":
			frame = FormatClose(s.callback, c.name, msgSeq)
		default:
			frame = FormatData(s.callback, c.name, msgSeq, content)
		}
		s.release <- frame
		s.released = true
		c.subs.remove(s)
	}
	return msgSeq, released
}

// backlog returns, for a client whose last-seen sequence is clientSeq,
// the buffered messages it should be replayed, starting at the
// (possibly clamped) sequence carried by the first item. ok is false if there is nothing to
// replay (buffer empty, or client is already current).
func (c *Channel) backlog(clientSeq uint32) (items []BacklogItem, ok bool) {
	if c.buf.len() == 0 || clientSeq == c.seqNext {
		return nil, false
	}
	min := c.msgSeqMin()
	start := clientSeq
	if seq.GT(clientSeq, c.seqNext) || seq.GT(min, clientSeq) {
		start = min
	}
	n := int(c.seqNext - start)
	items = make([]BacklogItem, 0, n)
	offset := int(start - min)
	for i := 0; i < n; i++ {
		items = append(items, BacklogItem{
			Seq:     start + uint32(i),
			Content: c.buf.at(offset + i),
		})
	}
	return items, true
}

// reset clears token, message buffer, and idle, returning the slot to
// its never-used state. id and seqNext are left untouched: seqNext
// keeps counting across the slot's reuse under a new name, matching the
// original server's preallocated-slot-array implementation.
func (c *Channel) reset() {
	c.token = ""
	c.buf.clear()
	c.idle = idleNever
	c.name = ""
}
