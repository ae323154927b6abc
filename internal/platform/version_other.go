//go:build !linux && !windows && !darwin

package platform

func version() string {
	return fallbackVersion()
}
