// vlcbuild init
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JoyRichB/vlc/internal/msg"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

// initIn drops a starter vlcbuild.toml next to an existing source tree.
func initIn(dir string) {
	writefile(`[build]
sdk = "iphoneos"
arch = "arm64"
deployment-target = "9.0"
cflags = ["-Os", "-fvisibility=hidden"]

[modules]
# plugins that make no sense inside an app-embedded static library
remove = [
    "stats",
    "oldrc",
    "hotkeys",
    "gestures",
    "netsync",
    "audioscrobbler",
    "podcast",
    "mediadirs",
]

[modules.'sdk != "macosx"']
remove = ["screen", "dbus", "xdg_shell"]

# [contrib.a52]
# source = "gh:videolan/liba52"
# configure = ["--disable-oss"]
`, dir, ConfigFilename)

	mkdir(dir, "patches")

	fmt.Printf("You can now run %s to build for the configured target.\n",
		color.HiCyanString("vlcbuild "+dir))
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a starter " + ConfigFilename + " next to a source tree",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
			mkdir(dir)
		}
		initIn(dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
