package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/mik-tf/tfbootmaker/pkg/device"
	"github.com/mik-tf/tfbootmaker/pkg/prompt"
)

// Session drives the interactive stages that precede and follow the
// destructive pipeline: inventory acknowledgment, the pre-flight unmount
// assistant, target collection, the confirmation gate, and ejection.
type Session struct {
	prompter *prompt.Prompter
	devices  device.Manager
	baseURL  string
	out      io.Writer
}

// NewSession creates a session over the given prompter and device manager.
// baseURL is only used to show the derived download URL before confirming.
func NewSession(p *prompt.Prompter, devices device.Manager, baseURL string, out io.Writer) *Session {
	return &Session{
		prompter: p,
		devices:  devices,
		baseURL:  baseURL,
		out:      out,
	}
}

// Collect runs the pre-pipeline stages and returns the collected target
// and whether the user confirmed the destructive operation. A declined
// confirmation returns (target, false, nil); an abort token anywhere
// returns prompt.ErrAborted.
func (s *Session) Collect(ctx context.Context) (*Target, bool, error) {
	// Current disk layout, so the user can identify the target before
	// anything destructive happens. An inventory failure is reported but
	// does not stop the run.
	if err := device.ListBlockDevices(s.out); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	if err := s.prompter.Ack("\nPress Enter to continue, or type 'exit' to quit: "); err != nil {
		return nil, false, err
	}

	if err := s.unmountAssistant(ctx); err != nil {
		return nil, false, err
	}

	devicePath, err := s.prompter.String("Target device (e.g. /dev/sdb): ", func(in string) (string, error) {
		if err := device.ValidatePath(in, s.devices.IsBlockDevice); err != nil {
			return "", err
		}
		return in, nil
	})
	if err != nil {
		return nil, false, err
	}

	var environment string
	code, err := s.prompter.String("Environment (mainnet/devnet/testnet/qanet): ", func(in string) (string, error) {
		c, ok := EnvironmentCode(in)
		if !ok {
			return "", fmt.Errorf("invalid environment: choose mainnet, devnet, testnet or qanet")
		}
		environment = in
		return c, nil
	})
	if err != nil {
		return nil, false, err
	}

	farmID, err := s.prompter.String("Farm ID: ", func(in string) (string, error) {
		if err := ValidateFarmID(in); err != nil {
			return "", err
		}
		return in, nil
	})
	if err != nil {
		return nil, false, err
	}

	target := &Target{
		Device:      devicePath,
		Environment: environment,
		EnvCode:     code,
		FarmID:      farmID,
	}

	fmt.Fprintf(s.out, "\nBoot image: %s\n", target.URL(s.baseURL))
	confirmed, err := s.prompter.Confirm(fmt.Sprintf("This will ERASE all data on %s. Continue? [y/n/exit]: ", devicePath))
	if err != nil {
		return nil, false, err
	}

	return target, confirmed, nil
}

// unmountAssistant optionally unmounts a stale mount before the run. The
// mount being released is unrelated to the device about to be formatted,
// so a failure here is reported with its raw exit status and swallowed.
func (s *Session) unmountAssistant(ctx context.Context) error {
	yes, err := s.prompter.Confirm("Unmount a disk first? [y/n/exit]: ")
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}

	path, err := s.prompter.Line("Path to unmount (leave empty to skip): ")
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	if err := s.devices.Unmount(ctx, path); err != nil {
		fmt.Fprintf(s.out, "umount %s failed with status %d, continuing\n", path, device.ExitStatus(err))
	}
	return nil
}

// ConfirmEject optionally ejects the prepared device. Declining finishes
// normally; an eject failure is fatal even though the write already
// succeeded. The abort token still stops the process here (with success
// status), merely skipping the ejection.
func (s *Session) ConfirmEject(ctx context.Context, devicePath string) error {
	yes, err := s.prompter.Confirm(fmt.Sprintf("Eject %s? [y/n/exit]: ", devicePath))
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}
	return s.devices.Eject(ctx, devicePath)
}
