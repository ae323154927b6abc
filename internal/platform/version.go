// Package platform reports the host operating system in the form returned by
// getPlatformVersion.
package platform

import (
	"runtime"
	"strings"
)

// Version returns the platform version string, e.g. "Linux #1 SMP ..." or
// "Windows 10+". It never fails: when the native query errors the bare OS
// name is returned.
func Version() string {
	return version()
}

// linuxVersion formats the uname(2) version field.
func linuxVersion(utsVersion string) string {
	return "Linux " + strings.TrimSpace(utsVersion)
}

// windowsVersion buckets an NT version number the way the shell reports it.
func windowsVersion(major, minor uint32) string {
	switch {
	case major >= 10:
		return "Windows 10+"
	case major == 6 && minor >= 2:
		return "Windows 8"
	case major == 6 && minor == 1:
		return "Windows 7"
	default:
		return "Windows"
	}
}

func macosVersion(productVersion string) string {
	return "macOS " + strings.TrimSpace(productVersion)
}

func fallbackVersion() string {
	return runtime.GOOS
}
