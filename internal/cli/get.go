package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <uid>",
		Short: "Show one record",
		Long: `Get loads a record through its data mapper and prints its fields.
Relations are shown as uids.

Example:
  oelib get fe_users 1
  oelib get static_countries 54 --json`,
		Args: cobra.ExactArgs(2),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.existing(args[0], args[1])
	if err != nil {
		return err
	}
	if err := printRecords(cmd.OutOrStdout(), flags.jsonMode, r); err != nil {
		return sysError(err)
	}
	return nil
}
