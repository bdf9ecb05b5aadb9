package device

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// ListBlockDevices writes a table of the block storage devices currently
// attached to the system, so the user can identify the target before
// anything destructive happens.
func ListBlockDevices(w io.Writer) error {
	block, err := ghw.Block()
	if err != nil {
		return errors.Wrap(err, "failed to read block device info")
	}

	fmt.Fprintf(w, "%-15s %10s  %s\n", "NAME", "SIZE", "MODEL")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	for _, disk := range block.Disks {
		sizeGB := float64(disk.SizeBytes) / (1024 * 1024 * 1024)
		fmt.Fprintf(w, "%-15s %9.2f GB  %s\n", "/dev/"+disk.Name, sizeGB, disk.Model)
	}
	return nil
}
