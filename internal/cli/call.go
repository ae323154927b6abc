package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"directory-bridge-server/internal/models"
)

// Exit codes of the call command.
const (
	exitSuccess        = 0
	exitFailure        = 1
	exitNotImplemented = 2
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

type callOptions struct {
	args     []string
	argsJSON string
	output   string
}

// newCallCmd creates the call command.
func newCallCmd(a *app) *cobra.Command {
	opts := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Run a single bridge method and print its response",
		Long: `Run a single bridge method and print the response envelope.

Arguments come from --args-json (an object) and repeated --arg key=value
pairs; --arg values are always strings and override --args-json keys.

Exit status is 0 on success, 1 on failure and 2 for unknown methods.`,
		Example: `  directory-bridge call getPlatformVersion
  directory-bridge call readFile --arg filePath=/tmp/notes.txt
  directory-bridge call getDirectoryDetails --args-json '{"directoryPath":"/tmp","recursive":true}' -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCall(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "argument as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.argsJSON, "args-json", "", "arguments as a JSON object")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	return cmd
}

func (a *app) runCall(cmd *cobra.Command, method string, opts *callOptions) error {
	if opts.output != "json" && opts.output != "yaml" {
		return fmt.Errorf("unsupported output format %q (use json or yaml)", opts.output)
	}
	raw, err := buildArgs(opts)
	if err != nil {
		return err
	}

	d, err := a.newDispatcher()
	if err != nil {
		return err
	}
	resp := d.DispatchRaw(cmd.Context(), method, raw)

	if err := printResponse(cmd.OutOrStdout(), resp, opts.output); err != nil {
		return err
	}

	switch {
	case resp.IsSuccess():
		return nil
	case resp.IsNotImplemented():
		return &ExitError{Code: exitNotImplemented}
	default:
		return &ExitError{Code: exitFailure}
	}
}

// buildArgs merges --args-json and --arg into one JSON bundle. A nil result
// means no arguments were given.
func buildArgs(opts *callOptions) (json.RawMessage, error) {
	if opts.argsJSON == "" && len(opts.args) == 0 {
		return nil, nil
	}

	bundle := map[string]interface{}{}
	if opts.argsJSON != "" {
		// Non-objects are passed through untouched so the dispatcher can
		// report them the same way every transport does.
		if len(opts.args) == 0 {
			return json.RawMessage(opts.argsJSON), nil
		}
		if err := json.Unmarshal([]byte(opts.argsJSON), &bundle); err != nil {
			return nil, fmt.Errorf("invalid --args-json: %w", err)
		}
	}
	for _, kv := range opts.args {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q (expected key=value)", kv)
		}
		bundle[key] = value
	}
	return json.Marshal(bundle)
}

func printResponse(w io.Writer, resp models.Response, format string) error {
	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}

	// Round-trip through a generic value so yaml sees the wire field names.
	var generic interface{}
	if err := json.Unmarshal(body, &generic); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return enc.Close()
}
