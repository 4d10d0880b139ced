// Package project drives the main tree's bootstrap/configure/make/install
// cycle and knows the install layout the link step consumes.
package project

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

// OutputArchive is the fixed name of the consolidated static library.
const OutputArchive = "libvlc-full.a"

// Builder builds the main source tree for one SDK/arch target.
type Builder struct {
	SourceDir     string // checkout of the main tree
	BuildDir      string // out-of-tree build directory
	Prefix        string // install prefix, produces lib/ and lib/vlc/plugins/
	ContribPrefix string // where contribs were installed
	Jobs          int
	Tc            *toolchain.Toolchain
}

// Build runs the whole configure/make/install cycle. Static-only: the
// resulting prefix holds the core archives and the plugin archive tree.
func (b *Builder) Build() error {
	if err := os.MkdirAll(b.BuildDir, 0755); err != nil {
		return err
	}

	configure := filepath.Join(b.SourceDir, "configure")
	if _, err := os.Stat(configure); err != nil {
		msg.Stage("Bootstrap", "%s", b.SourceDir)
		if err := b.runIn(b.SourceDir, "./bootstrap"); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}

	msg.Stage("Configure", "%s for %s/%s", b.SourceDir, b.Tc.Platform.SDK, b.Tc.Arch)
	args := []string{
		"--host=" + b.Tc.HostTriple(),
		"--prefix=" + b.Prefix,
		"--with-contrib=" + b.ContribPrefix,
		"--enable-static",
		"--disable-shared",
	}
	if err := b.runIn(b.BuildDir, configure, args...); err != nil {
		return fmt.Errorf("configure failed: %w", err)
	}

	msg.Stage("Building", "%s", b.SourceDir)
	if err := b.runIn(b.BuildDir, "make", "-j"+strconv.Itoa(max(b.Jobs, 1))); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := b.runIn(b.BuildDir, "make", "install"); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	return nil
}

func (b *Builder) runIn(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), b.Tc.Environ()...)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: os.Stdout}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: os.Stderr}
	return cmd.Run()
}

// CoreArchives returns the framework's main static libraries in the exact
// order the manifest expects them.
func CoreArchives(prefix string) []string {
	lib := filepath.Join(prefix, "lib")
	return []string{
		filepath.Join(lib, "libvlc.a"),
		filepath.Join(lib, "libvlccore.a"),
		filepath.Join(lib, "libcompat.a"),
	}
}

// PluginsDir returns the plugin archive tree inside an install prefix.
func PluginsDir(prefix string) string {
	return filepath.Join(prefix, "lib", "vlc", "plugins")
}
