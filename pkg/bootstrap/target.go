package bootstrap

import (
	"fmt"
	"strings"
)

// Fixed UEFI boot path on the prepared device. Firmware looks for the
// loader at exactly this location.
const (
	BootDir  = "EFI/BOOT"
	BootFile = "BOOTX64.EFI"
)

// Deployment environments and the short codes used in the bootstrap
// download path.
var environmentCodes = map[string]string{
	"mainnet": "prod",
	"devnet":  "dev",
	"testnet": "test",
	"qanet":   "qa",
}

// EnvironmentCode maps a deployment environment name, case-insensitively,
// to its bootstrap path code.
func EnvironmentCode(env string) (string, bool) {
	code, ok := environmentCodes[strings.ToLower(env)]
	return code, ok
}

// ValidateFarmID accepts a non-empty string of decimal digits. The value
// is used verbatim in the download path: no parsing, no leading-zero
// normalization.
func ValidateFarmID(id string) error {
	if id == "" {
		return fmt.Errorf("invalid farm ID: must not be empty")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid farm ID: digits only")
		}
	}
	return nil
}

// Target is the configuration collected for one preparation run.
type Target struct {
	Device      string
	Environment string
	EnvCode     string
	FarmID      string
}

// URL returns the bootstrap download URL for the target.
func (t Target) URL(base string) string {
	return base + "/uefi/" + t.EnvCode + "/" + t.FarmID
}

// MirrorKey returns the S3 object key for the same boot image on a mirror
// bucket.
func (t Target) MirrorKey() string {
	return "uefi/" + t.EnvCode + "/" + t.FarmID
}
