// vlcbuild [path], vlcbuild build [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

var (
	flagSDK    = NewEnumValue("macosx", sdkFlagValues())
	flagArch   string
	flagJobs   int
	flagRemove []string
)

// sdkFlagValues derives the --sdk value set from the platform table so the
// flag never drifts from what the toolchain supports.
func sdkFlagValues() map[string]string {
	help := map[string]string{
		"macosx":           "macOS",
		"iphoneos":         "iOS device",
		"iphonesimulator":  "iOS simulator",
		"appletvos":        "tvOS device",
		"appletvsimulator": "tvOS simulator",
	}
	allowed := make(map[string]string)
	for _, sdk := range toolchain.SDKs() {
		allowed[sdk] = help[sdk]
	}
	return allowed
}

func init() {
	addTargetFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	addTargetFlags(buildCmd)
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().VarP(&flagSDK, "sdk", "s", "Target SDK, one of "+flagSDK.HelpString())
	cmd.RegisterFlagCompletionFunc("sdk", flagSDK.CompletionFunc())
	cmd.Flags().StringVarP(&flagArch, "arch", "a", "arm64", "Target architecture")
	cmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "Parallel make jobs (0 = number of CPUs)")
	cmd.Flags().StringSliceVar(&flagRemove, "remove", nil, "Extra plugin modules to exclude from the static link set")
}

// doBuild runs the whole thing: contribs, the main tree, then the static
// link step.
func doBuild(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	p, err := newPipeline(cmd, target)
	if err != nil {
		msg.Fatal("%v", err)
	}

	cb := p.contribBuilder()
	if err := cb.FetchAll(); err != nil {
		msg.Fatal("%v", err)
	}
	if err := cb.BuildAll(); err != nil {
		msg.Fatal("%v", err)
	}

	if err := p.projectBuilder().Build(); err != nil {
		msg.Fatal("%v", err)
	}

	if err := p.link(); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("static library ready in %s", p.stageDir)
}

var rootCmd = &cobra.Command{
	Use:   "vlcbuild [source path]",
	Short: "Build static VLC libraries for Apple platforms",
	Long: `Cross-compiles VLC and its contribs for macOS, iOS and tvOS and merges
everything into one consolidated static library per SDK/arch pair.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build [source path]",
	Short: "Build contribs, the main tree and the static library",
	Long:  `Build contribs, the main tree and the static library. If no source path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
