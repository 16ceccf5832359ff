package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize oelib storage",
		Long: "Create the configuration and data directories, write config.yaml and an\n" +
			"empty fixture file for every table, then load the fixtures once to check them.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(err)
	}
	dataDir, err := resolveDataDir()
	if err != nil {
		return sysError(err)
	}
	backend := resolveBackend()
	if err := (types.Config{Backend: backend, DataDir: dataDir}).Validate(); err != nil {
		return userError(fmt.Errorf("backend %q: %w", backend, err))
	}

	written, err := writeConfigIfMissing(configDir, backend, dataDir)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if written {
		state.log.Infow("config written", "dir", configDir)
	}
	if err := jsonl.EnsureFiles(dataDir); err != nil {
		return sysError(fmt.Errorf("create fixtures: %w", err))
	}

	src, err := openSource(backend, dataDir)
	if err != nil {
		return err
	}
	if err := src.Close(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "oelib initialized (%s, %s)\n", backend, dataDir)
	return nil
}
