// Package sandbox detects whether the bridge runs inside an application
// sandbox that mediates file access through the desktop portal.
package sandbox

import "os"

// Kind names a sandbox technology.
type Kind string

const (
	None    Kind = "none"
	Flatpak Kind = "flatpak"
	Snap    Kind = "snap"
)

// FlatpakInfoPath is the marker file that flatpak bind-mounts into every sandbox.
const FlatpakInfoPath = "/run/flatpak-info"

// Environment is the slice of the OS the detector looks at. It is injected
// so tests can describe a sandbox without being in one.
type Environment interface {
	LookupEnv(key string) (string, bool)
	FileExists(path string) bool
}

// OSEnvironment reads the live process environment and filesystem.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

func (OSEnvironment) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StaticEnvironment is a fixed Environment.
type StaticEnvironment struct {
	Env   map[string]string
	Files map[string]bool
}

func (s StaticEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := s.Env[key]
	return v, ok
}

func (s StaticEnvironment) FileExists(path string) bool { return s.Files[path] }

// Detect reports which sandbox, if any, env describes. Flatpak wins when both
// markers are present.
func Detect(env Environment) Kind {
	if env == nil {
		env = OSEnvironment{}
	}
	if env.FileExists(FlatpakInfoPath) {
		return Flatpak
	}
	if v, ok := env.LookupEnv("SNAP"); ok && v != "" {
		return Snap
	}
	return None
}

// Sandboxed is shorthand for Detect(env) != None.
func Sandboxed(env Environment) bool {
	return Detect(env) != None
}
