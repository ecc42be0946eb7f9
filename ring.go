package comet

// msgRing is a fixed-capacity ring buffer of recently published message
// contents, the concrete form of a channel's msg_buffer. Pushing past
// capacity silently evicts the oldest entry.
type msgRing struct {
	data  []string
	start int
	count int
}

func newMsgRing(capacity int) msgRing {
	return msgRing{data: make([]string, capacity)}
}

func (r *msgRing) cap() int {
	return len(r.data)
}

func (r *msgRing) len() int {
	return r.count
}

func (r *msgRing) push(v string) {
	if len(r.data) == 0 {
		return
	}
	end := (r.start + r.count) % len(r.data)
	r.data[end] = v
	if r.count < len(r.data) {
		r.count++
	} else {
		// full: overwriting the oldest slot, advance start to match.
		r.start = (r.start + 1) % len(r.data)
	}
}

// at returns the i'th oldest entry, 0 <= i < len().
func (r *msgRing) at(i int) string {
	return r.data[(r.start+i)%len(r.data)]
}

func (r *msgRing) clear() {
	r.start, r.count = 0, 0
}
