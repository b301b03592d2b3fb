package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Announce a running batch sweep on the local network via
 *		DNS-SD/mDNS so a fleet-monitoring tool can discover it.
 *
 * Description:	Directly generalizes src/dns_sd.go's announcement of a
 *		running KISS TNC as "_kiss-tnc._tcp": here a
 *		cmd/channelwatch-batch run announces itself as
 *		"_channelwatch._tcp" instead, using the same pure-Go
 *		github.com/brutella/dnssd package for cross-platform
 *		mDNS responding.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// AnnounceService is the DNS-SD service type a running batch sweep
// announces itself as.
const AnnounceService = "_channelwatch._tcp"

// AnnounceBatchRun starts a DNS-SD responder advertising a batch run
// on port, returning a function that stops responding. The responder
// runs in its own goroutine and never feeds back into the simulation
// tick loop, so the run's determinism is unaffected.
func AnnounceBatchRun(ctx context.Context, logger *log.Logger, name string, port int) (func(), error) {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	if name == "" {
		name = "channelwatch"
	}

	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: AnnounceService,
		Port: port,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating DNS-SD service: %w", err)
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("creating DNS-SD responder: %w", err)
	}

	if _, err := rp.Add(sv); err != nil {
		return nil, fmt.Errorf("adding DNS-SD service: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	logger.Info("announcing batch run", "name", name, "port", port, "service", AnnounceService)
	go func() {
		if err := rp.Respond(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("DNS-SD responder error", "error", err)
		}
	}()

	return cancel, nil
}
