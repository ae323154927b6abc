//go:build !windows

package filesystem

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// probeWritable creates a uniquely named file with O_EXCL and removes it.
// Mode bits are never consulted: ACLs, read-only mounts and sandbox policy
// all surface as a failed create.
func probeWritable(dir string) error {
	probe := filepath.Join(dir, ".write_test_"+uuid.NewString())
	f, err := os.OpenFile(probe, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}
