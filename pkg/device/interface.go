// Package device drives the target block device through the standard
// storage utilities: FAT32 formatting, mounting, unmounting, content
// listing, and ejection. The utilities are invoked as external commands;
// this package only sequences them and interprets their exit status.
package device

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Manager performs the privileged operations of the preparation flow.
type Manager interface {
	// Format creates a fresh FAT32 filesystem on the device, assigning a
	// new volume serial.
	Format(ctx context.Context, devicePath string) error

	// Mount mounts the device at mountPath.
	Mount(ctx context.Context, devicePath, mountPath string) error

	// Unmount unmounts whatever is mounted at mountPath.
	Unmount(ctx context.Context, mountPath string) error

	// Eject ejects the removable device.
	Eject(ctx context.Context, devicePath string) error

	// ListContents writes a recursive listing of mountPath to out.
	ListContents(ctx context.Context, mountPath string, out io.Writer) error

	// IsBlockDevice reports whether devicePath exists and is a block device.
	IsBlockDevice(devicePath string) bool
}

// ExitStatus extracts the numeric exit status from a failed command
// invocation, or -1 when the error carries none (e.g. the binary was not
// found). Used to surface the raw status of non-fatal failures.
func ExitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
