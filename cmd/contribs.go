// vlcbuild contribs [path]
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JoyRichB/vlc/internal/msg"
)

var flagFetchOnly bool

func doContribs(cmd *cobra.Command, args []string) {
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
	if flagFetchOnly {
		return
	}
	if err := cb.BuildAll(); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("contribs installed in %s", cb.Prefix)
}

var contribsCmd = &cobra.Command{
	Use:   "contribs [source path]",
	Short: "Fetch and build the third-party dependencies",
	Long: `Fetch and build every [contrib.*] recipe into the isolated contrib
prefix for the selected SDK and architecture.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doContribs,
}

func init() {
	rootCmd.AddCommand(contribsCmd)
	addTargetFlags(contribsCmd)
	contribsCmd.Flags().BoolVar(&flagFetchOnly, "fetch-only", false, "Fetch sources without building")
}
