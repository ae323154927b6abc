//go:build linux

package platform

import "golang.org/x/sys/unix"

func version() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "Linux"
	}
	return linuxVersion(unix.ByteSliceToString(uts.Version[:]))
}
