package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mik-tf/tfbootmaker/pkg/device"
	"github.com/mik-tf/tfbootmaker/pkg/prompt"
)

const testBaseURL = "https://bootstrap.grid.tf"

func newTestSession(input string, fake *device.Fake) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	p := prompt.New(strings.NewReader(input), &out)
	return NewSession(p, fake, testBaseURL, &out), &out
}

func TestSessionCollect(t *testing.T) {
	fake := &device.Fake{Blocks: map[string]bool{"/dev/sdb": true}}

	// Ack, skip unmount, invalid device then valid, uppercase environment,
	// farm ID, confirm.
	input := "\nn\n/dev/sda\n/dev/sdb\nMAINNET\n5\ny\n"
	session, out := newTestSession(input, fake)

	target, confirmed, err := session.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if !confirmed {
		t.Fatal("expected confirmation")
	}

	if target.Device != "/dev/sdb" {
		t.Errorf("device = %q, want /dev/sdb", target.Device)
	}
	if target.EnvCode != "prod" {
		t.Errorf("env code = %q, want prod", target.EnvCode)
	}
	if target.FarmID != "5" {
		t.Errorf("farm ID = %q, want 5", target.FarmID)
	}
	if want := testBaseURL + "/uefi/prod/5"; !strings.Contains(out.String(), want) {
		t.Errorf("output does not show derived URL %q", want)
	}

	// The rejected /dev/sda must have produced a corrective message.
	if !strings.Contains(out.String(), "invalid device") {
		t.Error("expected a rejection message for /dev/sda")
	}

	// Nothing destructive happens during collection.
	if len(fake.Calls) != 0 {
		t.Errorf("unexpected device operations during collect: %v", fake.Calls)
	}
}

func TestSessionCollectDeclined(t *testing.T) {
	fake := &device.Fake{Blocks: map[string]bool{"/dev/sdb": true}}
	session, _ := newTestSession("\nn\n/dev/sdb\ndevnet\n42\nn\n", fake)

	target, confirmed, err := session.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if confirmed {
		t.Fatal("expected declined confirmation")
	}
	if target == nil || target.EnvCode != "dev" {
		t.Errorf("target not collected before decline: %+v", target)
	}

	// Declining must not have invoked format, mount or anything else.
	if len(fake.Calls) != 0 {
		t.Errorf("declined run performed device operations: %v", fake.Calls)
	}
}

// Declining the erase confirmation short-circuits the whole run: the
// pipeline is never started, so the device is untouched and nothing is
// downloaded.
func TestSessionDeclineShortCircuits(t *testing.T) {
	run := func(input string) (*device.Fake, *fakeFetcher) {
		fake := &device.Fake{Blocks: map[string]bool{"/dev/sdb": true}}
		fetcher := &fakeFetcher{}
		session, _ := newTestSession(input, fake)

		ctx := context.Background()
		target, confirmed, err := session.Collect(ctx)
		if err != nil {
			t.Fatalf("collect failed: %v", err)
		}
		if !confirmed {
			return fake, fetcher
		}

		// Mirrors the caller: only a confirmed target reaches the pipeline.
		m := NewMachine(fake, fetcher, io.Discard)
		req := &PrepareRequest{
			DevicePath: target.Device,
			FetchRef:   target.URL(testBaseURL),
			MountPath:  filepath.Join(t.TempDir(), "mnt"),
		}
		if err := m.format(ctx, req); err != nil {
			t.Fatalf("format: %v", err)
		}
		if err := m.mount(ctx, req); err != nil {
			t.Fatalf("mount: %v", err)
		}
		if err := m.fetch(ctx, req, &PrepareResponse{}); err != nil {
			t.Fatalf("fetch: %v", err)
		}
		return fake, fetcher
	}

	fake, fetcher := run("\nn\n/dev/sdb\nqanet\n9\nn\n")
	if len(fake.Calls) != 0 {
		t.Errorf("declined run performed device operations: %v", fake.Calls)
	}
	if fetcher.lastRef != "" {
		t.Errorf("declined run downloaded %q", fetcher.lastRef)
	}

	// The same flow with a confirmation does reach the pipeline.
	fake, fetcher = run("\nn\n/dev/sdb\nqanet\n9\ny\n")
	if len(fake.Calls) == 0 || fetcher.lastRef == "" {
		t.Error("confirmed run did not reach the pipeline")
	}
}

func TestSessionCollectAbort(t *testing.T) {
	fake := &device.Fake{}
	session, _ := newTestSession("exit\n", fake)

	_, _, err := session.Collect(context.Background())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("unexpected device operations after abort: %v", fake.Calls)
	}
}

// The abort token works mid-flow too, after some prompts already passed.
func TestSessionCollectAbortAtEnvironment(t *testing.T) {
	fake := &device.Fake{Blocks: map[string]bool{"/dev/sdb": true}}
	session, _ := newTestSession("\nn\n/dev/sdb\nEXIT\n", fake)

	_, _, err := session.Collect(context.Background())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSessionUnmountAssistantFailureIsNotFatal(t *testing.T) {
	fake := &device.Fake{
		Blocks:      map[string]bool{"/dev/sdb": true},
		FailUnmount: true,
	}
	input := "\ny\n/mnt/old\n/dev/sdb\ntestnet\n7\ny\n"
	session, out := newTestSession(input, fake)

	target, confirmed, err := session.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed despite non-fatal unmount error: %v", err)
	}
	if !confirmed || target.EnvCode != "test" {
		t.Errorf("collection did not continue after unmount failure: %+v confirmed=%v", target, confirmed)
	}

	if len(fake.Calls) != 1 || fake.Calls[0] != "unmount /mnt/old" {
		t.Errorf("expected a single unmount attempt, got %v", fake.Calls)
	}
	if !strings.Contains(out.String(), "continuing") {
		t.Error("expected the failure to be reported and execution to continue")
	}
}

func TestSessionConfirmEject(t *testing.T) {
	fake := &device.Fake{}
	session, _ := newTestSession("y\n", fake)

	if err := session.ConfirmEject(context.Background(), "/dev/sdb"); err != nil {
		t.Fatalf("eject failed: %v", err)
	}
	if len(fake.Calls) != 1 || fake.Calls[0] != "eject /dev/sdb" {
		t.Errorf("expected eject call, got %v", fake.Calls)
	}
}

func TestSessionConfirmEjectDeclined(t *testing.T) {
	fake := &device.Fake{}
	session, _ := newTestSession("n\n", fake)

	if err := session.ConfirmEject(context.Background(), "/dev/sdb"); err != nil {
		t.Fatalf("declined eject should not error: %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("unexpected device operations: %v", fake.Calls)
	}
}

func TestSessionConfirmEjectFailure(t *testing.T) {
	fake := &device.Fake{FailEject: true}
	session, _ := newTestSession("y\n", fake)

	if err := session.ConfirmEject(context.Background(), "/dev/sdb"); err == nil {
		t.Fatal("expected eject failure to propagate")
	}
}
