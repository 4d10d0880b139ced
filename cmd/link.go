// vlcbuild link [path], vlcbuild prune [path]
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JoyRichB/vlc/internal/linkset"
	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/project"
)

func doLink(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	p, err := newPipeline(cmd, target)
	if err != nil {
		msg.Fatal("%v", err)
	}
	if err := p.link(); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("static library ready in %s", p.stageDir)
}

func doPrune(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	p, err := newPipeline(cmd, target)
	if err != nil {
		msg.Fatal("%v", err)
	}

	removal := p.removal()
	removed, err := linkset.Prune(project.PluginsDir(p.installPrefix()), removal)
	if err != nil {
		msg.Fatal("%v", err)
	}
	for _, path := range removed {
		msg.Info("removed %s", path)
	}
	if len(removed) == 0 && len(removal) > 0 {
		msg.Warn("no plugin archives matched the removal set")
	}
}

var linkCmd = &cobra.Command{
	Use:   "link [source path]",
	Short: "Assemble the link set and produce the consolidated archive",
	Long: `Prune blacklisted plugin modules, discover the entry points of the
remaining plugins, generate and compile the static module table, and merge
plugins, core libraries and contribs into ` + project.OutputArchive + `.
Requires the main tree and contribs to be built and installed already.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doLink,
}

var pruneCmd = &cobra.Command{
	Use:   "prune [source path]",
	Short: "Delete blacklisted plugin archives from the install tree",
	Args:  cobra.MaximumNArgs(1),
	Run:   doPrune,
}

func init() {
	rootCmd.AddCommand(linkCmd)
	addTargetFlags(linkCmd)

	rootCmd.AddCommand(pruneCmd)
	addTargetFlags(pruneCmd)
}
