//go:build linux

package device

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// LinuxManager implements Manager on top of the Linux storage utilities.
// Format, mount, umount and eject require elevated privileges; the manager
// invokes the commands directly and assumes the process already has them.
type LinuxManager struct{}

// NewManager creates the Linux device manager.
func NewManager() Manager {
	slog.Info("device_manager_init", "platform", "linux")
	return &LinuxManager{}
}

func (m *LinuxManager) Format(ctx context.Context, devicePath string) error {
	if size, err := deviceSize(devicePath); err == nil {
		slog.Info("format_device", "device_path", devicePath, "filesystem", "vfat", "size_mb", size/1024/1024)
	} else {
		slog.Info("format_device", "device_path", devicePath, "filesystem", "vfat")
	}

	// -I permits formatting the whole disk; a fresh volume serial is
	// generated on every run.
	cmd := exec.CommandContext(ctx, "mkfs.vfat", "-I", "-F", "32", devicePath)
	if err := cmd.Run(); err != nil {
		slog.Error("format_failed", "device_path", devicePath, "error", err)
		return errors.Wrap(err, "failed to format device")
	}

	slog.Info("format_complete", "device_path", devicePath)
	return nil
}

func (m *LinuxManager) Mount(ctx context.Context, devicePath, mountPath string) error {
	slog.Info("mount_device", "device_path", devicePath, "mount_path", mountPath)

	cmd := exec.CommandContext(ctx, "mount", devicePath, mountPath)
	if err := cmd.Run(); err != nil {
		slog.Error("mount_failed", "device_path", devicePath, "mount_path", mountPath, "error", err)
		return errors.Wrap(err, "failed to mount device")
	}

	slog.Info("mount_complete", "mount_path", mountPath)
	return nil
}

func (m *LinuxManager) Unmount(ctx context.Context, mountPath string) error {
	slog.Info("unmount_device", "mount_path", mountPath)

	cmd := exec.CommandContext(ctx, "umount", mountPath)
	if err := cmd.Run(); err != nil {
		slog.Error("unmount_failed", "mount_path", mountPath, "error", err)
		return errors.Wrap(err, "failed to unmount device")
	}

	slog.Info("unmount_complete", "mount_path", mountPath)
	return nil
}

func (m *LinuxManager) Eject(ctx context.Context, devicePath string) error {
	slog.Info("eject_device", "device_path", devicePath)

	cmd := exec.CommandContext(ctx, "eject", devicePath)
	if err := cmd.Run(); err != nil {
		slog.Error("eject_failed", "device_path", devicePath, "error", err)
		return errors.Wrap(err, "failed to eject device")
	}

	slog.Info("eject_complete", "device_path", devicePath)
	return nil
}

// ListContents prints a recursive listing of the mount. tree gives the
// nicer output; a plain ls -R is the fallback when tree is unavailable.
func (m *LinuxManager) ListContents(ctx context.Context, mountPath string, out io.Writer) error {
	if _, err := os.Stat(mountPath); err != nil {
		return errors.Wrap(err, "mount path not accessible")
	}

	cmd := exec.CommandContext(ctx, "tree", mountPath)
	cmd.Stdout = out
	if err := cmd.Run(); err == nil {
		return nil
	}

	cmd = exec.CommandContext(ctx, "ls", "-R", mountPath)
	cmd.Stdout = out
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to list mount contents")
	}
	return nil
}

func (m *LinuxManager) IsBlockDevice(devicePath string) bool {
	var st unix.Stat_t
	if err := unix.Stat(devicePath, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}

// deviceSize returns the capacity of a block device in bytes via the
// BLKGETSIZE64 ioctl.
func deviceSize(devicePath string) (int64, error) {
	f, err := os.Open(devicePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("cannot determine device size: %v", errno)
	}
	return int64(size), nil
}
