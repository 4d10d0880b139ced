package linkset

import (
	"os"
	"path/filepath"

	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

// Build runs the full link-set pipeline for one SDK/arch target: prune the
// removal set from the plugin tree, assemble the manifest (discovering
// every plugin's entry point and compiling the static module table on the
// way), then combine everything into the consolidated archive at output.
// Every step is a hard prerequisite of the next; the first failure aborts.
func Build(tc *toolchain.Toolchain, asm Assembly, removal []string, output string) error {
	if err := os.MkdirAll(asm.BuildDir, 0755); err != nil {
		return err
	}

	if len(removal) > 0 {
		removed, err := Prune(asm.PluginsDir, removal)
		if err != nil {
			return err
		}
		msg.Stage("Pruning", "%d of %d blacklisted modules removed", len(removed), len(removal))
	}

	msg.Stage("Scanning", "plugin archives under %s", asm.PluginsDir)
	manifestPath, modules, err := asm.Run(tc)
	if err != nil {
		return err
	}
	msg.Stage("Generated", "module table with %d entry points", len(modules))

	msg.Stage("Combining", "%s", filepath.Base(output))
	if err := Combine(tc, manifestPath, output); err != nil {
		return err
	}
	return nil
}
