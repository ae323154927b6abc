//go:build windows

package platform

import "golang.org/x/sys/windows"

// RtlGetVersion is not subject to the manifest-based version lie of GetVersionEx.
func version() string {
	info := windows.RtlGetVersion()
	if info == nil {
		return fallbackVersion()
	}
	return windowsVersion(info.MajorVersion, info.MinorVersion)
}
