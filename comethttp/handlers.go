package comethttp

import (
	"net/http"
	"strconv"

	comet "github.com/gocomet/cometd"
	"github.com/gocomet/cometd/internal/clog"
)

func longPollHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/javascript; charset=utf-8")
	h.Set("Connection", "keep-alive")
	h.Set("Cache-Control", "no-cache")
	h.Set("Expires", "0")
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryUint32(r *http.Request, key string, def uint32) uint32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def
	}
	return uint32(n)
}

func writeFrame(w http.ResponseWriter, f comet.Frame) {
	w.Write(f)
	if fl, ok := w.(http.Flusher); ok {
		fl.Flush()
	}
}

// handleSub implements the sub verb: either an immediate backlog
// reply, an immediate 401/429 denial, or a parked long poll released by
// a later pub, noop, or explicit close.
func (s *Server) handleSub(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := comet.SubParams{
		CName:    q.Get("cname"),
		Seq:      queryUint32(r, "seq", 0),
		Noop:     queryInt(r, "noop", 0),
		Callback: q.Get("cb"),
		Token:    q.Get("token"),
	}
	if p.Callback == "" {
		p.Callback = s.core.DefaultCallback()
	}

	outcome, err := s.core.Sub(p)
	if err != nil {
		http.Error(w, "too many channels\n", http.StatusNotFound)
		return
	}

	longPollHeaders(w)

	switch outcome.Kind {
	case comet.SubDenied, comet.SubBacklog:
		w.WriteHeader(http.StatusOK)
		writeFrame(w, outcome.Frame)
		return
	case comet.SubParked:
		w.WriteHeader(http.StatusOK)
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case frame := <-outcome.Release():
			writeFrame(w, frame)
		case <-r.Context().Done():
			clog.Debug("sub: client disconnected before release", clog.F("cname", p.CName))
		}
		s.core.SubEnd(outcome.Sub)
	}
}

// handlePub implements the pub verb: publish content to cname and ack
// the publisher.
func (s *Server) handlePub(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := comet.PubParams{
		CName:    q.Get("cname"),
		Content:  q.Get("content"),
		Callback: q.Get("cb"),
	}

	ack, err := s.core.Pub(p)
	if err != nil {
		http.Error(w, "channel["+p.CName+"] not connected\n", http.StatusNotFound)
		return
	}

	longPollHeaders(w)
	writeFrame(w, ack)
}

// handleSign implements the sign verb: mint or reuse a channel token.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := comet.SignParams{
		CName:    q.Get("cname"),
		Expires:  queryInt(r, "expires", 0),
		Callback: q.Get("cb"),
	}

	frame, err := s.core.Sign(p)
	if err != nil {
		http.Error(w, "too many channels\n", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeFrame(w, frame)
}

// handleClose implements the close verb: ack with seq_next, then flush
// a close frame to every parked subscriber and free the channel.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	cname := r.URL.Query().Get("cname")
	seqNext, err := s.core.Close(comet.CloseParams{CName: cname})
	if err != nil {
		http.Error(w, "channel["+cname+"] not connected\n", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeFrame(w, comet.FormatCloseAck(seqNext))
}

// handlePing implements the purely informational ping verb.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	cb := r.URL.Query().Get("cb")
	if cb == "" {
		cb = s.core.DefaultCallback()
	}
	longPollHeaders(w)
	writeFrame(w, s.core.Ping(cb))
}

// handleInfo implements info: per-channel or process-wide subscriber
// counts.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	cname := r.URL.Query().Get("cname")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeFrame(w, s.core.Info(cname))
}

// handleCheck implements check: whether cname names a live channel.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	cname := r.URL.Query().Get("cname")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeFrame(w, s.core.Check(cname))
}

// handlePSub implements psub: a long-lived stream of channel
// online/offline events.
func (s *Server) handlePSub(w http.ResponseWriter, r *http.Request) {
	longPollHeaders(w)
	w.WriteHeader(http.StatusOK)

	p := s.core.PSub()
	defer s.core.PSubEnd(p)

	fl, _ := w.(http.Flusher)
	if fl != nil {
		fl.Flush()
	}
	for {
		select {
		case line := <-p.Lines():
			if _, err := w.Write(line); err != nil {
				return
			}
			if fl != nil {
				fl.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}
