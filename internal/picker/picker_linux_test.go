//go:build linux

package picker

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory-bridge-server/internal/sandbox"
)

type fakePortal struct {
	available bool
	path      string
	selected  bool
	err       error
	calls     int
}

func (f *fakePortal) Available(context.Context) bool { return f.available }

func (f *fakePortal) SelectDirectory(context.Context, string) (string, bool, error) {
	f.calls++
	return f.path, f.selected, f.err
}

var flatpakEnv = sandbox.StaticEnvironment{Files: map[string]bool{sandbox.FlatpakInfoPath: true}}

func TestLinuxCandidates(t *testing.T) {
	cmds := linuxCandidates(Options{Title: "Pick", Command: "my-chooser --dirs"})
	require.Len(t, cmds, 4)
	assert.Equal(t, "my-chooser", cmds[0].Name)
	assert.Equal(t, []string{"--dirs"}, cmds[0].Args)
	assert.Equal(t, "zenity", cmds[1].Name)
	assert.Contains(t, cmds[1].Args, "--title=Pick")
	assert.Equal(t, "kdialog", cmds[2].Name)
	assert.Equal(t, "yad", cmds[3].Name)

	assert.Len(t, linuxCandidates(Options{Title: "Pick"}), 3)
}

func TestLinuxPicker_FallbackOrder(t *testing.T) {
	runner := &fakeRunner{
		available: map[string]bool{"kdialog": true, "yad": true},
		results:   map[string]Result{"kdialog": {Stdout: "/home/u/Music\n"}},
	}
	p := &linuxPicker{
		opts:   Options{Title: "Pick", Env: sandbox.StaticEnvironment{}, Runner: runner},
		portal: &fakePortal{},
	}

	path, selected, err := p.SelectDirectory(context.Background())
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, "/home/u/Music", path)
	assert.Equal(t, []string{"kdialog"}, runner.calls)
}

func TestLinuxPicker_NoChooserInstalled(t *testing.T) {
	p := &linuxPicker{
		opts:   Options{Env: sandbox.StaticEnvironment{}, Runner: &fakeRunner{}},
		portal: &fakePortal{},
	}
	_, _, err := p.SelectDirectory(context.Background())
	assert.ErrorIs(t, err, ErrNoChooser)
}

func TestLinuxPicker_Sandboxed(t *testing.T) {
	tests := []struct {
		name        string
		usePortal   bool
		portal      *fakePortal
		wantPath    string
		portalCalls int
	}{
		{"portal detected but fallback only", false, &fakePortal{available: true, path: "/portal", selected: true}, "/zenity", 0},
		{"portal handshake enabled", true, &fakePortal{available: true, path: "/portal", selected: true}, "/portal", 1},
		{"portal failure falls back", true, &fakePortal{available: true, err: errors.New("no response")}, "/zenity", 1},
		{"portal missing", true, &fakePortal{available: false}, "/zenity", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				available: map[string]bool{"zenity": true},
				results:   map[string]Result{"zenity": {Stdout: "/zenity\n"}},
			}
			p := &linuxPicker{
				opts:   Options{Title: "Pick", UsePortal: tt.usePortal, Env: flatpakEnv, Runner: runner},
				portal: tt.portal,
			}
			path, selected, err := p.SelectDirectory(context.Background())
			require.NoError(t, err)
			assert.True(t, selected)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.portalCalls, tt.portal.calls)
		})
	}
}

func TestLinuxPicker_PortalCancelIsNotRetried(t *testing.T) {
	runner := &fakeRunner{available: map[string]bool{"zenity": true}}
	p := &linuxPicker{
		opts:   Options{UsePortal: true, Env: flatpakEnv, Runner: runner},
		portal: &fakePortal{available: true, selected: false},
	}
	_, selected, err := p.SelectDirectory(context.Background())
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Empty(t, runner.calls)
}

func TestParsePortalResponse(t *testing.T) {
	uris := map[string]dbus.Variant{"uris": dbus.MakeVariant([]string{"file:///home/u/My%20Docs"})}

	path, selected, err := parsePortalResponse([]interface{}{uint32(0), uris})
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, "/home/u/My Docs", path)

	_, selected, err = parsePortalResponse([]interface{}{uint32(1), map[string]dbus.Variant{}})
	require.NoError(t, err)
	assert.False(t, selected)

	_, _, err = parsePortalResponse([]interface{}{uint32(2), map[string]dbus.Variant{}})
	assert.Error(t, err)

	_, _, err = parsePortalResponse([]interface{}{uint32(0)})
	assert.Error(t, err)
}
