//go:build darwin

package picker

import (
	"context"
	"strings"
)

type darwinPicker struct {
	opts Options
}

func newNativePicker(opts Options) Picker {
	return &darwinPicker{opts: opts}
}

func (p *darwinPicker) SelectDirectory(ctx context.Context) (string, bool, error) {
	return runDialog(ctx, p.opts.Runner, darwinCommand(p.opts.Title))
}

func darwinCommand(title string) dialogCommand {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(title)
	return dialogCommand{
		Name: "osascript",
		Args: []string{"-e", `POSIX path of (choose folder with prompt "` + quoted + `")`},
		// AppleScript reports "User canceled" as error -128.
		Cancelled: func(res Result) bool { return strings.Contains(res.Stderr, "(-128)") },
		Clean: func(path string) string {
			if len(path) > 1 {
				return strings.TrimSuffix(path, "/")
			}
			return path
		},
	}
}
