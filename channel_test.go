package comet

import "testing"

func TestMsgRingEvictsOldest(t *testing.T) {
	r := newMsgRing(3)
	r.push("a")
	r.push("b")
	r.push("c")
	r.push("d") // evicts "a"

	if r.len() != 3 {
		t.Fatalf("len = %d, want 3", r.len())
	}
	got := []string{r.at(0), r.at(1), r.at(2)}
	want := []string{"b", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at(%d) = %q, want %q", i, got[i], want[i])
		}
	}
}

// A client seq older than the oldest buffered message is clamped up to
// msg_seq_min rather than rejected.
func TestChannelBacklogClampsStaleSeq(t *testing.T) {
	ch := newChannelSlot(0, 2)
	ch.name = "x"
	ch.send("data", "a")
	ch.send("data", "b")
	ch.send("data", "c") // buffer cap 2: evicts "a", seqNext now 4

	items, ok := ch.backlog(1) // client thinks seq_next is still 1
	if !ok {
		t.Fatal("backlog() = false, want true")
	}
	want := []BacklogItem{{Seq: 2, Content: "b"}, {Seq: 3, Content: "c"}}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestChannelBacklogEmptyWhenCurrent(t *testing.T) {
	ch := newChannelSlot(0, 4)
	ch.name = "x"
	ch.send("data", "a")

	if _, ok := ch.backlog(ch.seqNext); ok {
		t.Error("backlog() = true for a client already at seq_next")
	}
}

// reset clears token, buffer, idle and name but leaves id and seqNext
// alone: the original server's preallocated slot array never rewinds
// the sequence counter across reuse.
func TestChannelResetLeavesSeqNext(t *testing.T) {
	ch := newChannelSlot(5, 4)
	ch.name = "x"
	ch.createToken("tok")
	ch.send("data", "a")
	ch.send("data", "b")

	seqNextBefore := ch.seqNext
	ch.reset()

	if ch.id != 5 {
		t.Errorf("id = %d, want 5 (unchanged by reset)", ch.id)
	}
	if ch.seqNext != seqNextBefore {
		t.Errorf("seqNext = %d, want unchanged %d", ch.seqNext, seqNextBefore)
	}
	if ch.token != "" {
		t.Errorf("token = %q, want cleared", ch.token)
	}
	if ch.buf.len() != 0 {
		t.Errorf("buf.len() = %d, want 0", ch.buf.len())
	}
	if ch.idle != idleNever {
		t.Errorf("idle = %d, want idleNever", ch.idle)
	}
}

func TestChannelSendReleasesAllParkedSubscribers(t *testing.T) {
	ch := newChannelSlot(0, 4)
	ch.name = "x"

	s1 := newSubscriber()
	s1.callback = "f"
	s2 := newSubscriber()
	s2.callback = "g"
	ch.addSubscriber(s1, 10)
	ch.addSubscriber(s2, 10)

	_, released := ch.send("data", "hi")
	if len(released) != 2 {
		t.Fatalf("released = %d subscribers, want 2", len(released))
	}
	if ch.subs.len() != 0 {
		t.Errorf("subs.len() = %d, want 0 after flush", ch.subs.len())
	}

	want1 := `f({type: "data", cname: "x", seq: "1", content: "hi"});` + "\n"
	want2 := `g({type: "data", cname: "x", seq: "1", content: "hi"});` + "\n"
	if got := string(<-s1.release); got != want1 {
		t.Errorf("s1 frame = %q, want %q", got, want1)
	}
	if got := string(<-s2.release); got != want2 {
		t.Errorf("s2 frame = %q, want %q", got, want2)
	}
}
