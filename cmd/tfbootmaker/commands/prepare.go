package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/superfly/fsm"

	"github.com/mik-tf/tfbootmaker/internal/config"
	"github.com/mik-tf/tfbootmaker/pkg/bootstrap"
	"github.com/mik-tf/tfbootmaker/pkg/device"
	apperrors "github.com/mik-tf/tfbootmaker/pkg/errors"
	"github.com/mik-tf/tfbootmaker/pkg/prompt"
	"github.com/mik-tf/tfbootmaker/pkg/storage"
)

// runPrepare is the interactive preparation flow behind the bare
// `tfbootmaker` invocation. A user abort at any prompt exits 0; any
// pipeline failure exits 1 through Execute.
func runPrepare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return apperrors.Wrap(err, "config load failed")
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.Wrap(err, "config invalid")
	}

	if err := ensureDirectories(cfg.WorkDir, cfg.FSMDBPath); err != nil {
		return err
	}

	devices := device.NewManager()
	prompter := prompt.New(os.Stdin, os.Stdout)
	session := bootstrap.NewSession(prompter, devices, cfg.BaseURL, os.Stdout)

	target, confirmed, err := session.Collect(ctx)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if !confirmed {
		// Declined confirmation aborts silently with success status.
		return nil
	}

	var fetcher storage.Fetcher
	fetchRef := target.URL(cfg.BaseURL)
	if cfg.MirrorBucket != "" {
		mirror, err := storage.NewMirrorClient(ctx, cfg.MirrorBucket, cfg.MirrorRegion)
		if err != nil {
			return apperrors.Wrap(err, "mirror client failed")
		}

		// Check the mirror holds the image before the device is touched.
		key := target.MirrorKey()
		found, err := mirror.Exists(ctx, key)
		if err != nil {
			return apperrors.Wrap(err, "mirror check failed")
		}
		if !found {
			return fmt.Errorf("boot image %s not found in mirror bucket %s", key, cfg.MirrorBucket)
		}

		fetcher = mirror
		fetchRef = key
	} else {
		fetcher = storage.NewHTTPClient()
	}

	manager, err := fsm.New(fsm.Config{DBPath: cfg.FSMDBPath})
	if err != nil {
		return apperrors.Wrap(err, "pipeline manager failed")
	}
	defer manager.Shutdown(10 * time.Second)

	machine := bootstrap.NewMachine(devices, fetcher, os.Stdout)
	start, _, err := machine.Register(ctx, manager)
	if err != nil {
		return apperrors.Wrap(err, "pipeline register failed")
	}

	req := &bootstrap.PrepareRequest{
		DevicePath: target.Device,
		FetchRef:   fetchRef,
		MountPath:  cfg.MountPath,
	}
	resp := &bootstrap.PrepareResponse{}

	version, err := start(ctx, target.Device, fsm.NewRequest(req, resp))
	if err != nil {
		return apperrors.Wrap(err, "pipeline start failed")
	}

	slog.Info("pipeline_started", "version", version)

	if err := manager.Wait(ctx, version); err != nil {
		return apperrors.Wrap(err, "preparation failed")
	}

	fmt.Printf("\nBoot device ready: %s (farm %s, %s)\n", target.Device, target.FarmID, target.Environment)
	slog.Info("prepare_complete", "device", target.Device, "ref", fetchRef, "status", resp.Status)

	// Optional ejection. An abort here still exits with success status:
	// the operation itself already completed.
	if err := session.ConfirmEject(ctx, target.Device); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		return apperrors.Wrap(err, "eject failed")
	}

	return nil
}
