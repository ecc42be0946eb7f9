// Command cometd runs a standalone comet relay server.
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	comet "github.com/gocomet/cometd"
	"github.com/gocomet/cometd/admin"
	"github.com/gocomet/cometd/comethttp"
)

var (
	listenAddr        string
	maxChannels       int
	maxSubsPerChannel int
	channelBufferSize int
	pollingTimeout    int
	pollingIdles      int
	channelTimeout    int
	channelIdles      int
	checkInterval     time.Duration
	authToken         bool
	corsOrigins       []string
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("cometd: maxprocs: %v", err)
	}

	root := &cobra.Command{
		Use:   "cometd",
		Short: "HTTP long-polling publish/subscribe relay",
		RunE:  run,
	}

	flags := root.Flags()
	flags.StringVar(&listenAddr, "listen", ":8765", "address to listen on")
	flags.IntVar(&maxChannels, "max-channels", 1024, "maximum number of concurrently live channels")
	flags.IntVar(&maxSubsPerChannel, "max-subscribers-per-channel", 1000, "maximum parked subscribers per channel")
	flags.IntVar(&channelBufferSize, "channel-buffer-size", 100, "messages retained per channel for backlog replay")
	flags.IntVar(&pollingTimeout, "polling-timeout", 30, "seconds reported to clients as their poll timeout")
	flags.IntVar(&pollingIdles, "polling-idles", 10, "sweeper ticks a parked subscriber may idle before a noop")
	flags.IntVar(&channelTimeout, "channel-timeout", 600, "default sign expiry in seconds")
	flags.IntVar(&channelIdles, "channel-idles", 600, "sweeper ticks a subscribed channel is clamped up to")
	flags.DurationVar(&checkInterval, "check-interval", time.Second, "sweeper tick interval")
	flags.BoolVar(&authToken, "auth-token", false, "require a signed token on sub (default: auto-create channels)")
	flags.StringSliceVar(&corsOrigins, "cors-allow-origin", nil, "origins allowed to make cross-origin requests")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts := []comet.Option{
		comet.WithMaxChannels(maxChannels),
		comet.WithMaxSubscribersPerChannel(maxSubsPerChannel),
		comet.WithChannelBufferSize(channelBufferSize),
		comet.WithPollingTimeout(pollingTimeout),
		comet.WithPollingIdles(pollingIdles),
		comet.WithChannelTimeout(channelTimeout),
		comet.WithChannelIdles(channelIdles),
		comet.WithCheckInterval(checkInterval),
	}
	if authToken {
		opts = append(opts, comet.WithAuthToken())
	}

	core := comet.NewCore(comet.NewConfig(opts...))
	defer core.Stop()

	httpOpts := []comethttp.ServerOption{}
	if len(corsOrigins) > 0 {
		httpOpts = append(httpOpts, comethttp.WithCORSAllowOrigins(corsOrigins...))
	}
	srv := comethttp.NewServer(core, httpOpts...)

	mux := http.NewServeMux()
	mux.Handle("/admin/", admin.Handler(core))
	mux.Handle("/", srv)

	log.Printf("cometd: listening on %s", listenAddr)
	return http.ListenAndServe(listenAddr, mux)
}
