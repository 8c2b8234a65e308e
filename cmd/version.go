package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/version"
)

func init() {
	var versionCommand = &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			generateCmdOutput(os.Stdout)
		},
	}
	RootCommand.AddCommand(versionCommand)
}

func generateCmdOutput(out io.Writer) {
	fmt.Fprintln(out, "Version: "+version.Version)
	if version.Vcs != "" {
		fmt.Fprintln(out, "Build Commit: "+version.Vcs)
	}
	fmt.Fprintln(out, "Go Version: "+version.GoVersion)
}
