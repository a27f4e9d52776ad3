package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docchat version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docchat version %s\n", version)
		if !verbose {
			return
		}
		cmd.Printf("go:       %s\n", runtime.Version())
		cmd.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if info, ok := debug.ReadBuildInfo(); ok {
			cmd.Printf("module:   %s\n", info.Main.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
