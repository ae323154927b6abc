package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/mod/semver"

	"directory-bridge-server/internal/config"
	"directory-bridge-server/internal/dispatch"
	"directory-bridge-server/internal/filesystem"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/picker"
	"directory-bridge-server/internal/sandbox"
	"directory-bridge-server/internal/service"
)

// version is set via ldflags during build:
// -ldflags "-X directory-bridge-server/internal/cli.version=v1.0.0"
var version = "v0.1.0"

func init() {
	if !semver.IsValid(version) {
		panic(fmt.Sprintf("invalid version set via ldflags: %q (must be valid semver)", version))
	}
}

// Version returns the build version.
func Version() string {
	return version
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"logging.level":       "log-level",
	"transport.type":      "transport",
	"transport.http.host": "host",
	"transport.http.port": "port",
}

// app holds what every command needs once the config is loaded.
type app struct {
	cfgFile string
	config  *config.Config
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// newPicker is swapped out by tests.
	newPicker func(picker.Options) picker.Picker
}

func newApp() *app {
	return &app{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newPicker: picker.New,
	}
}

// loadConfig reads the config and points the logger at its output.
func (a *app) loadConfig(flags *pflag.FlagSet) error {
	bound := make(map[string]*pflag.Flag, len(flagKeys))
	for key, name := range flagKeys {
		bound[key] = flags.Lookup(name)
	}

	cfg, err := config.Load(a.cfgFile, bound)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return err
	}
	a.config = cfg
	return nil
}

// newDispatcher wires the filesystem, picker and service behind a Dispatcher.
func (a *app) newDispatcher() (*dispatch.Dispatcher, error) {
	cfg := a.config
	p := a.newPicker(picker.Options{
		Title:       cfg.Dialog.Title,
		Command:     cfg.Dialog.Command,
		UsePortal:   cfg.Dialog.UsePortal,
		LockTimeout: cfg.Dialog.LockTimeout,
		Timeout:     cfg.Dialog.Timeout,
		Env:         sandbox.OSEnvironment{},
	})
	svc, err := service.NewDefaultDirectoryService(filesystem.NewDefaultFileSystemAdapter(), p, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize directory service: %w", err)
	}
	return dispatch.New(svc), nil
}

// newRootCmd creates the root command. Running it without a subcommand
// serves the configured transport.
func newRootCmd(a *app) *cobra.Command {
	serve := newServeCmd(a)

	rootCmd := &cobra.Command{
		Use:   "directory-bridge",
		Short: "Native directory picker and file access bridge",
		Long: `directory-bridge exposes a fixed set of directory and file operations
(getPlatformVersion, selectDirectory, hasPermission, requestPermission,
writeFile, listDirectory, readFile, getDirectoryDetails) over JSON-RPC on
stdio or HTTP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig(cmd.Flags())
		},
		RunE: serve.RunE,
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file path (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	addServeFlags(rootCmd.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newCallCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

// Execute runs the CLI application and exits with the command's status.
func Execute() {
	a := newApp()
	rootCmd := newRootCmd(a)

	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
