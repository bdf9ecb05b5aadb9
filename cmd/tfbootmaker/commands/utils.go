package commands

import (
	"os"
	"path/filepath"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// ensureDirectories creates the working directory and the pipeline journal
// directory. The mount point itself is created by the pipeline, right
// before mounting.
func ensureDirectories(workDir, fsmDBPath string) error {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create work directory")
	}
	if err := os.MkdirAll(filepath.Dir(fsmDBPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create journal directory")
	}
	return nil
}
