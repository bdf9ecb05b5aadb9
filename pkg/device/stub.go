//go:build !linux

package device

import (
	"context"
	"fmt"
	"io"
	"runtime"
)

// StubManager is a no-op Manager for non-Linux systems; every operation
// fails with a platform error. It exists so the CLI still builds and the
// read-only commands keep working elsewhere.
type StubManager struct{}

// NewManager creates a stub manager on non-Linux systems.
func NewManager() Manager {
	return &StubManager{}
}

func (m *StubManager) Format(ctx context.Context, devicePath string) error {
	return fmt.Errorf("device operations not supported on %s", runtime.GOOS)
}

func (m *StubManager) Mount(ctx context.Context, devicePath, mountPath string) error {
	return fmt.Errorf("device operations not supported on %s", runtime.GOOS)
}

func (m *StubManager) Unmount(ctx context.Context, mountPath string) error {
	return fmt.Errorf("device operations not supported on %s", runtime.GOOS)
}

func (m *StubManager) Eject(ctx context.Context, devicePath string) error {
	return fmt.Errorf("device operations not supported on %s", runtime.GOOS)
}

func (m *StubManager) ListContents(ctx context.Context, mountPath string, out io.Writer) error {
	return fmt.Errorf("device operations not supported on %s", runtime.GOOS)
}

func (m *StubManager) IsBlockDevice(devicePath string) bool {
	return false
}
