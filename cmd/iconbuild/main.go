package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iconbuild",
	Short: "Build resized PNG icons and a multi-resolution .ico from one image",
	Long: `Build resized PNG icons and a multi-resolution .ico from one image.

Run without a subcommand to build from puzzle.png in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addBuildFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
