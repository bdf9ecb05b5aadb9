package device

import (
	"context"
	"fmt"
	"io"
)

// Fake is an in-memory Manager that records every operation in order. Tests
// use it to assert what the flow invoked (and what it never reached)
// without touching real devices.
type Fake struct {
	Calls  []string
	Blocks map[string]bool

	FailFormat  bool
	FailMount   bool
	FailUnmount bool
	FailEject   bool
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) Format(ctx context.Context, devicePath string) error {
	f.record("format %s", devicePath)
	if f.FailFormat {
		return fmt.Errorf("format failed")
	}
	return nil
}

func (f *Fake) Mount(ctx context.Context, devicePath, mountPath string) error {
	f.record("mount %s %s", devicePath, mountPath)
	if f.FailMount {
		return fmt.Errorf("mount failed")
	}
	return nil
}

func (f *Fake) Unmount(ctx context.Context, mountPath string) error {
	f.record("unmount %s", mountPath)
	if f.FailUnmount {
		return fmt.Errorf("unmount failed")
	}
	return nil
}

func (f *Fake) Eject(ctx context.Context, devicePath string) error {
	f.record("eject %s", devicePath)
	if f.FailEject {
		return fmt.Errorf("eject failed")
	}
	return nil
}

func (f *Fake) ListContents(ctx context.Context, mountPath string, out io.Writer) error {
	f.record("list %s", mountPath)
	fmt.Fprintln(out, mountPath)
	return nil
}

func (f *Fake) IsBlockDevice(devicePath string) bool {
	return f.Blocks[devicePath]
}
