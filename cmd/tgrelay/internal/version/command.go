package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Show version information",
		Args:    cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			printVersion()
		},
	}
}

func printVersion() {
	fmt.Printf("%s tgrelay %s\n", internal.Logo, internal.FormatVersion())
	build, goVer := internal.FormatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}
