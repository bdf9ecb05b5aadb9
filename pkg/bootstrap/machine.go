// Package bootstrap implements the USB preparation flow: the interactive
// session that collects and validates the run configuration, and the
// destructive format/mount/fetch/present/unmount pipeline, registered as a
// finite state machine with the superfly/fsm library.
package bootstrap

import (
	"context"
	"io"

	"github.com/superfly/fsm"

	"github.com/mik-tf/tfbootmaker/pkg/device"
	"github.com/mik-tf/tfbootmaker/pkg/errors"
	"github.com/mik-tf/tfbootmaker/pkg/storage"
)

// Machine holds the dependencies of the pipeline states.
type Machine struct {
	devices device.Manager
	fetcher storage.Fetcher
	out     io.Writer
}

// NewMachine creates a pipeline machine. out receives the content listing
// of the present state.
func NewMachine(devices device.Manager, fetcher storage.Fetcher, out io.Writer) *Machine {
	return &Machine{
		devices: devices,
		fetcher: fetcher,
		out:     out,
	}
}

// Register registers the preparation pipeline. Every state aborts
// terminally on failure: the flow performs no retries, a failed run is
// reported and the process stops.
func (m *Machine) Register(ctx context.Context, manager *fsm.Manager) (fsm.Start[PrepareRequest, PrepareResponse], fsm.Resume, error) {
	start, resume, err := fsm.Register[PrepareRequest, PrepareResponse](manager, "usb-prepare").
		Start(StateFormat, m.handleFormat).
		To(StateMount, m.handleMount).
		To(StateFetch, m.handleFetch).
		To(StatePresent, m.handlePresent).
		To(StateUnmount, m.handleUnmount).
		End(StateFailed).
		Build(ctx)

	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to register pipeline")
	}

	return start, resume, nil
}
