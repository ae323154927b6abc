//go:build windows

package picker

import (
	"context"
	"strings"
)

type windowsPicker struct {
	opts Options
}

func newNativePicker(opts Options) Picker {
	return &windowsPicker{opts: opts}
}

// SelectDirectory shows the shell folder browser. PowerShell runs with -STA
// because the dialog needs a single-threaded COM apartment.
func (p *windowsPicker) SelectDirectory(ctx context.Context) (string, bool, error) {
	return runDialog(ctx, p.opts.Runner, windowsCommand(p.opts.Title))
}

func windowsCommand(title string) dialogCommand {
	script := strings.Join([]string{
		"Add-Type -AssemblyName System.Windows.Forms",
		"[Console]::OutputEncoding = [System.Text.Encoding]::UTF8",
		"$d = New-Object System.Windows.Forms.FolderBrowserDialog",
		"$d.Description = '" + strings.ReplaceAll(title, "'", "''") + "'",
		"$d.ShowNewFolderButton = $true",
		"if ($d.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) { Write-Output $d.SelectedPath }",
	}, "; ")
	return dialogCommand{
		Name: "powershell.exe",
		Args: []string{"-NoProfile", "-NonInteractive", "-STA", "-Command", script},
	}
}
