//go:build windows

package filesystem

import (
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/windows"
)

// probeWritable creates a temporary file that the OS deletes as soon as the
// handle is closed, so a crash can never leave the probe behind.
func probeWritable(dir string) error {
	probe := filepath.Join(dir, ".write_test_"+uuid.NewString())
	name, err := windows.UTF16PtrFromString(probe)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(
		name,
		windows.GENERIC_WRITE,
		0,
		nil,
		windows.CREATE_NEW,
		windows.FILE_ATTRIBUTE_TEMPORARY|windows.FILE_FLAG_DELETE_ON_CLOSE,
		0,
	)
	if err != nil {
		return err
	}
	return windows.CloseHandle(h)
}
