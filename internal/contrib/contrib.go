// Package contrib fetches and builds third-party dependencies into an
// isolated install prefix. Every contrib is built static-only; the main
// project links against the prefix and the host system never sees it.
package contrib

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/JoyRichB/vlc/internal/config"
	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

// Builder drives the contrib recipes of one SDK/arch target.
type Builder struct {
	Recipes map[string]config.ContribSection
	BaseDir string // project root, patch paths resolve against it
	SrcDir  string // fetched source trees, one subdir per recipe
	Prefix  string // isolated install prefix
	Jobs    int
	Tc      *toolchain.Toolchain
}

// FetchAll materializes every recipe's source tree. Fetches are
// independent, so they run concurrently; the first failure cancels the
// rest.
func (b *Builder) FetchAll() error {
	if err := os.MkdirAll(b.SrcDir, 0755); err != nil {
		return err
	}

	var g errgroup.Group
	for name, recipe := range b.Recipes {
		dest := filepath.Join(b.SrcDir, name)
		if _, err := os.Stat(dest); err == nil {
			continue // already fetched
		}
		g.Go(func() error {
			msg.Stage("Fetching", "%s", name)
			if _, err := fetchSource(recipe.Source, dest); err != nil {
				return fmt.Errorf("failed to fetch contrib %q: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// BuildAll patches, configures, builds and installs every recipe into the
// prefix. Builds run sequentially in sorted recipe order; contribs declare
// no dependencies on one another, so no graph resolution happens here.
func (b *Builder) BuildAll() error {
	if err := os.MkdirAll(b.Prefix, 0755); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(b.Recipes)) {
		if err := b.buildOne(name, b.Recipes[name]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildOne(name string, recipe config.ContribSection) error {
	srcDir := filepath.Join(b.SrcDir, name)
	if _, err := os.Stat(srcDir); err != nil {
		return fmt.Errorf("contrib %q not fetched: %w", name, err)
	}

	for _, target := range slices.Sorted(maps.Keys(recipe.Patches)) {
		patchPath := filepath.Join(b.BaseDir, recipe.Patches[target])
		if err := applyPatch(srcDir, target, patchPath); err != nil {
			return fmt.Errorf("contrib %q: %w", name, err)
		}
	}

	msg.Stage("Building", "contrib %s", name)

	if recipe.Bootstrap != "" {
		if err := b.runIn(srcDir, "sh", "-c", recipe.Bootstrap); err != nil {
			return fmt.Errorf("contrib %q bootstrap: %w", name, err)
		}
	}

	configureArgs := []string{
		"--host=" + b.Tc.HostTriple(),
		"--prefix=" + b.Prefix,
		"--enable-static",
		"--disable-shared",
	}
	configureArgs = append(configureArgs, recipe.Configure...)
	if err := b.runIn(srcDir, "./configure", configureArgs...); err != nil {
		return fmt.Errorf("contrib %q configure: %w", name, err)
	}
	if err := b.runIn(srcDir, "make", "-j"+strconv.Itoa(max(b.Jobs, 1))); err != nil {
		return fmt.Errorf("contrib %q build: %w", name, err)
	}
	if err := b.runIn(srcDir, "make", "install"); err != nil {
		return fmt.Errorf("contrib %q install: %w", name, err)
	}
	return nil
}

// runIn runs a subprocess in dir with the toolchain environment exported
// explicitly on top of the parent environment.
func (b *Builder) runIn(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), b.Tc.Environ()...)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: os.Stdout}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: os.Stderr}
	return cmd.Run()
}

// ArchiveDir returns the directory the link-set assembler searches for
// contrib archives.
func (b *Builder) ArchiveDir() string {
	return filepath.Join(b.Prefix, "lib")
}
