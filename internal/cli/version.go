package cli

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

const modulePath = "github.com/svewap/ext-oelib-sub002"

// Version is set at build time with -ldflags "-X <module>/internal/cli.Version=...".
var Version = "0.1.0-dev"

// channel classifies a version string: release, prerelease, or development
// when it is not semver (a bare commit hash from git describe).
func channel(version string) string {
	v, err := semver.NewVersion(version)
	switch {
	case err != nil:
		return "development"
	case v.Prerelease() != "":
		return "prerelease"
	default:
		return "release"
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the oelib version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "oelib v%s (%s)\nmodule: %s\n", Version, channel(Version), modulePath)
			return nil
		},
	}
}
