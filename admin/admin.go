// Package admin provides a monitoring endpoint for a comet.Core: a
// static status page plus a JSON counters endpoint, the direct
// successor to sseserver's own admin package once it moved off
// go.rice onto the standard library's embed.
package admin

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	comet "github.com/gocomet/cometd"
)

//go:embed index.html
var html []byte

// Status is a JSON-serializable snapshot of a core's counters, what
// gets reported to the status.json endpoint.
type Status struct {
	Reported    int64 `json:"reported_at"`
	Channels    int   `json:"channels"`
	Subscribers int   `json:"subscribers"`
	Presence    int   `json:"presence_subscribers"`
}

func statusHTMLHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write(html)
}

func statusDataHandler(w http.ResponseWriter, r *http.Request, core *comet.Core) {
	st := core.Stats()
	status := Status{
		Reported:    time.Now().Unix(),
		Channels:    st.Channels,
		Subscribers: st.Subscribers,
		Presence:    st.PresenceSubscribers,
	}
	w.Header().Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(status, "", "  ")
	fmt.Fprint(w, string(b))
}

// Handler returns an http.Handler exposing /admin/ (a static status
// page) and /admin/status.json (live counters) for core. Mount it
// alongside a comethttp.Server under a mux.
func Handler(core *comet.Core) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/", statusHTMLHandler)
	mux.HandleFunc("/admin/status.json", func(w http.ResponseWriter, r *http.Request) {
		statusDataHandler(w, r, core)
	})
	return mux
}
