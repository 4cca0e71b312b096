package pipeline

import (
	"os"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// writeFile writes data to path, replacing any existing file.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
