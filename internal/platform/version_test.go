package platform

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowsVersion(t *testing.T) {
	tests := []struct {
		name         string
		major, minor uint32
		want         string
	}{
		{"windows 11 reports as 10", 10, 0, "Windows 10+"},
		{"windows 8.1", 6, 3, "Windows 8"},
		{"windows 8", 6, 2, "Windows 8"},
		{"windows 7", 6, 1, "Windows 7"},
		{"vista", 6, 0, "Windows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, windowsVersion(tt.major, tt.minor))
		})
	}
}

func TestLinuxAndMacVersion(t *testing.T) {
	assert.Equal(t, "Linux #1 SMP PREEMPT_DYNAMIC", linuxVersion("#1 SMP PREEMPT_DYNAMIC\n"))
	assert.Equal(t, "macOS 14.5", macosVersion("14.5"))
}

func TestVersion_MatchesHost(t *testing.T) {
	v := Version()
	assert.NotEmpty(t, v)
	switch runtime.GOOS {
	case "linux":
		assert.True(t, strings.HasPrefix(v, "Linux"), v)
	case "windows":
		assert.True(t, strings.HasPrefix(v, "Windows"), v)
	case "darwin":
		assert.True(t, strings.HasPrefix(v, "macOS"), v)
	default:
		assert.Equal(t, runtime.GOOS, v)
	}
}
