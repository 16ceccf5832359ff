package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <table>",
		Short: "List the live records of a table",
		Long: `List prints every record of the table that is not soft-deleted,
ordered by uid.`,
		Args: cobra.ExactArgs(1),
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.mapperFor(args[0])
	if err != nil {
		return err
	}
	all, err := m.FindAll(cmd.Context())
	if err != nil {
		return sysError(fmt.Errorf("list %s: %w", args[0], err))
	}
	if err := printRecords(cmd.OutOrStdout(), flags.jsonMode, all.Records()...); err != nil {
		return sysError(err)
	}
	return nil
}
