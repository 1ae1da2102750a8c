package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gnaw version",
		Long:  "Prints the gnaw release version, the VCS revision it was built from and the Go toolchain that built it.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("gnaw (unknown build)")
				return
			}

			release := info.Main.Version
			if release == "" {
				release = "(devel)"
			}

			cmd.Printf("gnaw %s %s\n", release, info.GoVersion)

			if rev := buildSetting(info, "vcs.revision"); rev != "" {
				cmd.Printf("revision %s\n", rev)
			}
		},
	}
}

// buildSetting returns the value of one -buildinfo key, or "" when the
// binary was built without it (e.g. outside a VCS checkout).
func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}

	return ""
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
