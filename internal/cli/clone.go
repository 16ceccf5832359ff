package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <table> <uid>",
		Short: "Print the unsaved clone of a record",
		Long: `Clone loads a record and prints the copy Clone would produce: no uid,
the same fields, owned collections cloned member by member.
Read-only tables cannot be cloned.`,
		Args: cobra.ExactArgs(2),
		RunE: runClone,
	}
}

func runClone(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.existing(args[0], args[1])
	if err != nil {
		return err
	}
	clone, err := r.Clone()
	if errors.Is(err, model.ErrContractViolation) {
		return userError(fmt.Errorf("clone %s %s: %w", args[0], args[1], err))
	}
	if err != nil {
		return sysError(err)
	}
	if err := printRecords(cmd.OutOrStdout(), flags.jsonMode, clone); err != nil {
		return sysError(err)
	}
	return nil
}
