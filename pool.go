package comet

// channelPool owns the fixed-size slot array backing every Channel, plus
// the free/used partition and the name index. Every slot lives in
// exactly one of {free, used} (spec.md invariant 1); a slot is in
// nameIndex iff it is in used (invariant 2).
type channelPool struct {
	slots     []Channel
	free      []*Channel // stack of unused slots
	used      parkedSet[Channel]
	nameIndex map[string]*Channel
}

func newChannelPool(maxChannels, bufSize int) *channelPool {
	p := &channelPool{
		slots:     make([]Channel, maxChannels),
		free:      make([]*Channel, 0, maxChannels),
		used:      newParkedSet[Channel](),
		nameIndex: make(map[string]*Channel, maxChannels),
	}
	for i := range p.slots {
		p.slots[i] = *newChannelSlot(i, bufSize)
		p.free = append(p.free, &p.slots[i])
	}
	return p
}

func (p *channelPool) byName(name string) *Channel {
	return p.nameIndex[name]
}

func (p *channelPool) byID(id int) *Channel {
	if id < 0 || id >= len(p.slots) {
		return nil
	}
	return &p.slots[id]
}

// newChannel takes a slot off the free list, names it, and registers it
// in both the used set and the name index. It returns nil if the pool
// is exhausted.
func (p *channelPool) newChannel(name string) *Channel {
	if len(p.free) == 0 {
		return nil
	}
	n := len(p.free) - 1
	c := p.free[n]
	p.free = p.free[:n]

	c.name = name
	p.nameIndex[name] = c
	p.used.add(c)
	return c
}

// freeChannel is the symmetric inverse of newChannel: it is only valid
// to call when the channel has no parked subscribers (spec.md
// invariant 3).
func (p *channelPool) freeChannel(c *Channel) {
	p.used.remove(c)
	delete(p.nameIndex, c.name)
	c.reset()
	p.free = append(p.free, c)
}

func (p *channelPool) channelCount() int {
	return p.used.len()
}

// usedSnapshot is a stable copy of the used list, safe to iterate while
// the sweeper frees channels mid-pass.
func (p *channelPool) usedSnapshot() []*Channel {
	return p.used.snapshot()
}
