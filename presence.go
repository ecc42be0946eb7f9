package comet

import "strconv"

// PresenceType is the numeric code written at the start of each presence
// line: 1 when a channel comes online, 0 when it goes offline.
type PresenceType int

const (
	PresenceOffline PresenceType = 0
	PresenceOnline  PresenceType = 1
)

// PresenceSubscriber is a long-lived connection receiving a stream of
// "<code> <cname>\n" lines. Unlike Subscriber it is never attached to a
// channel and never released by a single frame — it stays parked until
// its connection closes.
type PresenceSubscriber struct {
	lines chan []byte
}

// Lines returns the channel a parked presence subscriber receives
// "<code> <cname>\n" event lines on.
func (p *PresenceSubscriber) Lines() <-chan []byte {
	return p.lines
}

func newPresenceSubscriber() *PresenceSubscriber {
	// small buffer: a presence subscriber that can't keep up loses
	// nothing it needs for correctness (online/offline events are not
	// replayed), but we don't want a single slow reader to stall the
	// core, so sends never block (see presenceBroadcaster.notify).
	return &PresenceSubscriber{lines: make(chan []byte, 64)}
}

// presenceBroadcaster holds every parked PresenceSubscriber and fans out
// one line per channel online/offline transition.
type presenceBroadcaster struct {
	subs parkedSet[PresenceSubscriber]
}

func newPresenceBroadcaster() *presenceBroadcaster {
	return &presenceBroadcaster{subs: newParkedSet[PresenceSubscriber]()}
}

func (b *presenceBroadcaster) add(p *PresenceSubscriber) {
	b.subs.add(p)
}

func (b *presenceBroadcaster) remove(p *PresenceSubscriber) bool {
	return b.subs.remove(p)
}

func (b *presenceBroadcaster) count() int {
	return b.subs.len()
}

// notify composes "<type> <cname>\n" and writes it to every parked
// presence subscriber. There is no flow control beyond the subscriber's
// own small buffer; a wedged connection is cleaned up independently when
// its HTTP request context is cancelled.
func (b *presenceBroadcaster) notify(typ PresenceType, cname string) {
	if b.subs.len() == 0 {
		return
	}
	line := []byte(strconv.Itoa(int(typ)) + " " + cname + "\n")
	for _, p := range b.subs.snapshot() {
		select {
		case p.lines <- line:
		default:
			// buffer full: drop rather than block the core goroutine.
		}
	}
}
