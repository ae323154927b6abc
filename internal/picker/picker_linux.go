//go:build linux

package picker

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/sandbox"
)

// portalClient is the part of the desktop portal the picker uses.
type portalClient interface {
	Available(ctx context.Context) bool
	SelectDirectory(ctx context.Context, title string) (string, bool, error)
}

type linuxPicker struct {
	opts   Options
	portal portalClient
}

func newNativePicker(opts Options) Picker {
	return &linuxPicker{opts: opts, portal: dbusPortal{}}
}

// SelectDirectory prefers the portal when sandboxed. Unless UsePortal is
// set, detecting the portal only logs and the toolkit chooser is used, which
// routes through the portal on its own inside flatpak and snap.
func (p *linuxPicker) SelectDirectory(ctx context.Context) (string, bool, error) {
	if kind := sandbox.Detect(p.opts.Env); kind != sandbox.None && p.portal.Available(ctx) {
		if p.opts.UsePortal {
			path, selected, err := p.portal.SelectDirectory(ctx, p.opts.Title)
			if err == nil {
				return path, selected, nil
			}
			if ctx.Err() != nil {
				return "", false, err
			}
			logger.Warn("Portal directory chooser failed, falling back: %v", err)
		} else {
			logger.Info("Running in %s - using toolkit dialog with portal permissions", kind)
		}
	}
	return p.fallback(ctx)
}

func (p *linuxPicker) fallback(ctx context.Context) (string, bool, error) {
	candidates := linuxCandidates(p.opts)
	tried := make([]string, 0, len(candidates))
	for _, cmd := range candidates {
		if _, err := p.opts.Runner.LookPath(cmd.Name); err != nil {
			tried = append(tried, cmd.Name)
			continue
		}
		logger.Debug("Opening directory chooser %s", cmd.Name)
		return runDialog(ctx, p.opts.Runner, cmd)
	}
	return "", false, errors.Wrapf(ErrNoChooser, "tried %s", strings.Join(tried, ", "))
}

// linuxCandidates lists the choosers to try, in order. All of them exit with
// status 1 when the dialog is dismissed.
func linuxCandidates(opts Options) []dialogCommand {
	var cmds []dialogCommand
	if fields := strings.Fields(opts.Command); len(fields) > 0 {
		cmds = append(cmds, dialogCommand{Name: fields[0], Args: fields[1:], Cancelled: exitCodeOne})
	}

	start, err := os.UserHomeDir()
	if err != nil {
		start = "."
	}
	return append(cmds,
		dialogCommand{
			Name:      "zenity",
			Args:      []string{"--file-selection", "--directory", "--title=" + opts.Title},
			Cancelled: exitCodeOne,
		},
		dialogCommand{
			Name:      "kdialog",
			Args:      []string{"--getexistingdirectory", start, "--title", opts.Title},
			Cancelled: exitCodeOne,
		},
		dialogCommand{
			Name:      "yad",
			Args:      []string{"--file", "--directory", "--title=" + opts.Title},
			Cancelled: exitCodeOne,
		},
	)
}
