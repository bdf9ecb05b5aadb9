package device

import (
	"fmt"
	"regexp"
)

// Whole-disk SCSI/USB devices only. sda is excluded on purpose: it is
// almost always the system disk.
var pathPattern = regexp.MustCompile(`^/dev/sd[b-z]$`)

// ValidatePath checks that devicePath names an allowed whole-disk device
// and that it currently exists as a block device. Both checks produce the
// same rejection message, so a well-formed but absent path is reported no
// differently than a malformed one.
func ValidatePath(devicePath string, isBlock func(string) bool) error {
	if !pathPattern.MatchString(devicePath) || !isBlock(devicePath) {
		return fmt.Errorf("invalid device: expected an existing block device matching /dev/sd[b-z]")
	}
	return nil
}
