// Command simulate runs a single two-host, one-link simulation and prints
// the sending flow's congestion window to stdout as CSV each time a new
// cumulative ACK arrives, and the flow's per-tick rate to stderr. It exists as a demo driver exercising the Updatable
// contract, analogous to the teacher's own cmd/calibrate, cmd/throttle.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"

	netsim "github.com/nirkhe/networksimulation"
	"github.com/nirkhe/networksimulation/analytics"
)

// csvWindowSink prints cwnd samples to stdout; it is the only FlowSink
// implementation in this command, kept separate from analytics.PromFlowSink so
// a quick local run needs no scrape target.
type csvWindowSink struct{}

var _ analytics.FlowSink = &csvWindowSink{}

func (*csvWindowSink) WindowSize(nowMS int64, packets int) {
	fmt.Printf("%d,%d\n", nowMS, packets)
}

func (*csvWindowSink) FlowRateMbps(nowMS int64, mbps float64) {
	fmt.Fprintf(os.Stderr, "# now_ms=%d rate_mbps=%.4f\n", nowMS, mbps)
}

func main() {
	rate := flag.Int64("rate-bpms", 80, "link rate, in bits per millisecond")
	delay := flag.Int64("delay-ms", 10, "one-way propagation delay, in ms")
	buffer := flag.Int64("buffer-bits", 65536, "per-direction buffer capacity, in bits")
	dataBits := flag.Int64("data-bits", 81920, "flow size, in bits")
	intervalMS := flag.Int64("interval-ms", 1, "tick length, in ms")
	ticks := flag.Int("ticks", 20000, "number of ticks to run")
	fast := flag.Bool("fast", false, "use the FAST protocol instead of Reno")
	flag.Parse()

	log.SetLevel(log.InfoLevel)

	sender := netsim.NewHost("10.0.0.1", log.Log)
	receiver := netsim.NewHost("10.0.0.2", log.Log)

	lnk, err := netsim.NewLink(sender, receiver, netsim.LinkConfig{
		RateBitsPerMS:      *rate,
		PropagationDelayMS: *delay,
		BufferCapacityBits: *buffer,
	}, log.Log, nil)
	if err != nil {
		log.WithError(err).Fatal("netsim.NewLink")
	}
	sender.AttachLink(lnk)
	receiver.AttachLink(lnk)

	protocol := netsim.ProtocolReno
	if *fast {
		protocol = netsim.ProtocolFast
	}

	flow, err := netsim.NewFlow(sender, receiver, *dataBits, 0, protocol, &csvWindowSink{})
	if err != nil {
		log.WithError(err).Fatal("netsim.NewFlow")
	}
	if err := sender.AddFlow(flow); err != nil {
		log.WithError(err).Fatal("sender.AddFlow")
	}
	if err := sender.Validate(); err != nil {
		log.WithError(err).Fatal("sender.Validate")
	}
	if err := receiver.Validate(); err != nil {
		log.WithError(err).Fatal("receiver.Validate")
	}

	fmt.Printf("now_ms,cwnd_packets\n")
	var nowMS int64
	for i := 0; i < *ticks; i++ {
		sender.Update(*intervalMS, nowMS)
		receiver.Update(*intervalMS, nowMS)
		lnk.Update(*intervalMS, nowMS)
		nowMS += *intervalMS
	}
}
