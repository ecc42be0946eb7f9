package comet

import (
	"strconv"
	"strings"
)

// Frame is a fully-rendered JSONP response body, ready to be written
// verbatim to an HTTP response. Framing (the literal mix of quoted and
// unquoted fields below) is part of the wire contract for existing
// clients and must not be "corrected" — see frame.go in this package for
// every shape that exists.
type Frame []byte

func wrapCB(cb string, body string) string {
	if cb == "" {
		return body + "\n"
	}
	return cb + "(" + body + ");\n"
}

// FormatData renders a single data frame for sequence seq on cname.
func FormatData(cb, cname string, seqv uint32, content string) Frame {
	var b strings.Builder
	writeDataObj(&b, cname, seqv, content)
	return Frame(wrapCB(cb, b.String()))
}

func writeDataObj(b *strings.Builder, cname string, seqv uint32, content string) {
	b.WriteString(`{type: "data", cname: "`)
	b.WriteString(cname)
	b.WriteString(`", seq: "`)
	b.WriteString(strconv.FormatUint(uint64(seqv), 10))
	b.WriteString(`", content: "`)
	b.WriteString(content)
	b.WriteString(`"}`)
}

// BacklogItem is one buffered message replayed to a subscriber whose
// client-supplied seq lagged the channel.
type BacklogItem struct {
	Seq     uint32
	Content string
}

// FormatBacklog renders a JSONP array of data frames, oldest first.
func FormatBacklog(cb, cname string, items []BacklogItem) Frame {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		writeDataObj(&b, cname, it.Seq, it.Content)
	}
	b.WriteByte(']')
	return Frame(wrapCB(cb, b.String()))
}

// FormatNoop renders a heartbeat frame telling the client to reconnect.
func FormatNoop(cb, cname string, noopSeq int) Frame {
	body := `{type: "noop", cname: "` + cname + `", seq: "` + strconv.Itoa(noopSeq) + `"}`
	return Frame(wrapCB(cb, body))
}

// Format401 renders the token-auth failure frame.
func Format401(cb, cname string) Frame {
	body := `{type: "401", cname: "` + cname + `", seq: "0", content: "Token Error"}`
	return Frame(wrapCB(cb, body))
}

// Format429 renders the per-channel subscriber cap frame.
func Format429(cb, cname string) Frame {
	body := `{type: "429", cname: "` + cname + `", seq: "0", content: "Too Many Requests"}`
	return Frame(wrapCB(cb, body))
}

// FormatClose renders the frame sent to every parked subscriber when a
// channel is explicitly closed.
func FormatClose(cb, cname string, seqv uint32) Frame {
	body := `{type: "close", cname: "` + cname + `", seq: "` + strconv.FormatUint(uint64(seqv), 10) + `", content: ""}`
	return Frame(wrapCB(cb, body))
}

// FormatPing renders the ping frame, purely informational.
func FormatPing(cb string, subTimeout int) Frame {
	body := `{type: "ping", sub_timeout: ` + strconv.Itoa(subTimeout) + `}`
	return Frame(wrapCB(cb, body))
}

// FormatSign renders the sign frame. Note seq and expires/sub_timeout
// are bare (unquoted) integers, unlike the "seq" field in data/noop
// frames — this asymmetry is in the original wire format and preserved
// intentionally.
func FormatSign(cb, cname string, seqv uint32, token string, expires, subTimeout int) Frame {
	body := `{type: "sign", cname: "` + cname + `", seq: ` + strconv.FormatUint(uint64(seqv), 10) +
		`, token: "` + token + `", expires: ` + strconv.Itoa(expires) +
		`, sub_timeout: ` + strconv.Itoa(subTimeout) + `}`
	return Frame(wrapCB(cb, body))
}

// FormatPubAck renders the ack sent back to a publisher.
func FormatPubAck(cb string) Frame {
	return Frame(wrapCB(cb, `{type: "ok"}`))
}

// FormatCloseAck renders close's plain-text publisher response. Like
// the info and check bodies, and unlike pub and sign, it is never
// JSONP-wrapped, matching the original server's close handler.
func FormatCloseAck(seqNext uint32) Frame {
	return Frame("ok " + strconv.FormatUint(uint64(seqNext), 10) + "\n")
}

// FormatInfoChannel renders info's per-channel body.
func FormatInfoChannel(cname string, subscribers int) Frame {
	return Frame(`{cname: "` + cname + `", subscribers: ` + strconv.Itoa(subscribers) + "}\n")
}

// FormatInfoGlobal renders info's process-wide body, used when no cname
// is given.
func FormatInfoGlobal(channels, subscribers int) Frame {
	return Frame(`{channels: ` + strconv.Itoa(channels) + `, subscribers: ` + strconv.Itoa(subscribers) + "}\n")
}

// FormatCheck renders check's body: present when live is true, else an
// empty object.
func FormatCheck(cname string, live bool) Frame {
	if !live {
		return Frame("{}\n")
	}
	return Frame(`{"` + cname + `": 1}` + "\n")
}
