// Package cli implements the oelib command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
	user      bool
}

var flags rootFlags

// state is filled by the root PersistentPreRunE for the running command.
var state struct {
	config *viper.Viper
	log    *zap.SugaredLogger
}

// NewRootCmd creates the top-level "oelib" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oelib",
		Short: "Inspect records through the oelib data mappers",
		Long: "oelib loads front-end users, user groups and countries from JSONL fixtures\n" +
			"into a storage backend and reads them through identity-mapped data mappers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(flags.verbose)
			if err != nil {
				return sysError(fmt.Errorf("build logger: %w", err))
			}
			state.log = log

			configDir, err := resolveConfigDir()
			if err != nil {
				return sysError(err)
			}
			v, err := loadConfig(configDir, cmd.Root().PersistentFlags().Lookup(cfgKeyBackend))
			if err != nil {
				return sysError(err)
			}
			state.config = v
			log.Debugw("config loaded", "dir", configDir, "file", v.ConfigFileUsed())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.log != nil {
				_ = state.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.oelib)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.oelib-db)")
	root.PersistentFlags().StringVar(&flags.backend, cfgKeyBackend, "", "storage backend: sqlite, bolt or memory")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&flags.user, "user", false, "default to the per-user platform directories instead of $(CWD)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newCloneCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "oelib:", err)
		os.Exit(exitCode(err))
	}
}

// codedError attaches an exit code to an error returned by a command.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func userError(err error) error { return &codedError{code: exitUserError, err: err} }
func sysError(err error) error { return &codedError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors without a code are
// usage errors raised by cobra itself.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}

// resolveConfigDir applies --config-dir > OELIB_CONFIG_DIR > default.
func resolveConfigDir() (string, error) {
	flag := flags.configDir
	if flag == "" && flags.user && os.Getenv(paths.EnvConfigDir) == "" {
		dir, err := paths.DefaultConfigDir()
		if err != nil {
			return "", err
		}
		flag = dir
	}
	return paths.ResolveConfigDir(flag)
}

// resolveDataDir applies --data-dir > config.yaml data_dir > OELIB_DATA_DIR >
// default.
func resolveDataDir() (string, error) {
	configured := ""
	if state.config != nil {
		configured = state.config.GetString(cfgKeyDataDir)
	}
	flag := flags.dataDir
	if flag == "" && configured == "" && flags.user && os.Getenv(paths.EnvDataDir) == "" {
		dir, err := paths.DefaultDataDir()
		if err != nil {
			return "", err
		}
		flag = dir
	}
	return paths.ResolveDataDir(flag, configured)
}

// resolveBackend returns the backend named by --backend, OELIB_BACKEND or
// config.yaml, in that order.
func resolveBackend() string {
	if state.config == nil {
		return flags.backend
	}
	return state.config.GetString(cfgKeyBackend)
}
