package linkset

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

// Combine merges every archive and object named in the manifest into one
// consolidated static archive at output. The manifest is passed via
// -filelist so arbitrarily many inputs (and exotic filenames) are safe, and
// the "no symbols" warning is suppressed for contrib archives that
// legitimately define none. On failure the manifest file is left in place
// for debugging.
func Combine(tc *toolchain.Toolchain, manifestPath, output string) error {
	os.Remove(output)

	cmd := exec.Command(tc.Libtool,
		"-static",
		"-no_warning_for_no_symbols",
		"-filelist", manifestPath,
		"-o", output,
	)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: os.Stdout}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: os.Stderr}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("libtool failed combining %s (manifest kept at %s): %w", output, manifestPath, err)
	}
	return nil
}
