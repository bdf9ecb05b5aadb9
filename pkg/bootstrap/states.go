package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/superfly/fsm"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// The step functions below carry the pipeline semantics; the handle*
// wrappers adapt them to the FSM runtime. Keeping them separate lets tests
// exercise the steps with fakes and no FSM journal.

func (m *Machine) format(ctx context.Context, req *PrepareRequest) error {
	return m.devices.Format(ctx, req.DevicePath)
}

func (m *Machine) mount(ctx context.Context, req *PrepareRequest) error {
	if err := os.MkdirAll(req.MountPath, 0755); err != nil {
		return errors.Wrap(err, "failed to create mount directory")
	}
	return m.devices.Mount(ctx, req.DevicePath, req.MountPath)
}

// fetch downloads the boot image to the UEFI path inside the mount. On any
// failure it attempts a compensating unmount, deliberately unchecked: the
// run is already failed and a second error would add nothing.
func (m *Machine) fetch(ctx context.Context, req *PrepareRequest, resp *PrepareResponse) error {
	bootDir := filepath.Join(req.MountPath, BootDir)
	if err := os.MkdirAll(bootDir, 0755); err != nil {
		m.devices.Unmount(ctx, req.MountPath)
		return errors.Wrap(err, "failed to create boot directory")
	}

	localPath := filepath.Join(bootDir, BootFile)
	result, err := m.fetcher.Fetch(ctx, req.FetchRef, localPath)
	if err != nil {
		m.devices.Unmount(ctx, req.MountPath)
		return errors.Wrap(err, "failed to fetch boot image")
	}

	resp.ImagePath = result.LocalPath
	resp.SHA256 = result.SHA256
	resp.Size = result.Size
	return nil
}

// present lists the mount contents. Purely informational: a listing
// failure is printed and swallowed, it never fails the run.
func (m *Machine) present(ctx context.Context, req *PrepareRequest) {
	if err := m.devices.ListContents(ctx, req.MountPath, m.out); err != nil {
		fmt.Fprintf(m.out, "error: cannot list %s: %v\n", req.MountPath, err)
	}
}

func (m *Machine) unmount(ctx context.Context, req *PrepareRequest) error {
	return m.devices.Unmount(ctx, req.MountPath)
}

func (m *Machine) handleFormat(ctx context.Context, req *fsm.Request[PrepareRequest, PrepareResponse]) (*fsm.Response[PrepareResponse], error) {
	slog.Info("pipeline_state_format", "device_path", req.Msg.DevicePath)

	resp := req.W.Msg
	if resp == nil {
		resp = &PrepareResponse{}
	}

	if err := m.format(ctx, req.Msg); err != nil {
		slog.Error("pipeline_format_failed", "device_path", req.Msg.DevicePath, "error", err)
		return nil, fsm.Abort(err)
	}

	return fsm.NewResponse(resp), nil
}

func (m *Machine) handleMount(ctx context.Context, req *fsm.Request[PrepareRequest, PrepareResponse]) (*fsm.Response[PrepareResponse], error) {
	slog.Info("pipeline_state_mount", "device_path", req.Msg.DevicePath, "mount_path", req.Msg.MountPath)

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if err := m.mount(ctx, req.Msg); err != nil {
		slog.Error("pipeline_mount_failed", "device_path", req.Msg.DevicePath, "error", err)
		return nil, fsm.Abort(err)
	}

	return fsm.NewResponse(resp), nil
}

func (m *Machine) handleFetch(ctx context.Context, req *fsm.Request[PrepareRequest, PrepareResponse]) (*fsm.Response[PrepareResponse], error) {
	slog.Info("pipeline_state_fetch", "ref", req.Msg.FetchRef)

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if err := m.fetch(ctx, req.Msg, resp); err != nil {
		slog.Error("pipeline_fetch_failed", "ref", req.Msg.FetchRef, "error", err)
		return nil, fsm.Abort(err)
	}

	return fsm.NewResponse(resp), nil
}

func (m *Machine) handlePresent(ctx context.Context, req *fsm.Request[PrepareRequest, PrepareResponse]) (*fsm.Response[PrepareResponse], error) {
	slog.Info("pipeline_state_present", "mount_path", req.Msg.MountPath)

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	m.present(ctx, req.Msg)

	return fsm.NewResponse(resp), nil
}

func (m *Machine) handleUnmount(ctx context.Context, req *fsm.Request[PrepareRequest, PrepareResponse]) (*fsm.Response[PrepareResponse], error) {
	slog.Info("pipeline_state_unmount", "mount_path", req.Msg.MountPath)

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if err := m.unmount(ctx, req.Msg); err != nil {
		slog.Error("pipeline_unmount_failed", "mount_path", req.Msg.MountPath, "error", err)
		return nil, fsm.Abort(err)
	}

	resp.Status = StatusComplete
	slog.Info("pipeline_complete", "image_path", resp.ImagePath, "sha256_prefix", shortSum(resp.SHA256))

	return fsm.NewResponse(resp), nil
}

func shortSum(sum string) string {
	if len(sum) > 16 {
		return sum[:16] + "..."
	}
	return sum
}
