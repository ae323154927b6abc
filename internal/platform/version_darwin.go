//go:build darwin

package platform

import "golang.org/x/sys/unix"

func version() string {
	v, err := unix.Sysctl("kern.osproductversion")
	if err != nil || v == "" {
		return "macOS"
	}
	return macosVersion(v)
}
