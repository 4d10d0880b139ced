package linkset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JoyRichB/vlc/internal/toolchain"
)

// ManifestFile is the flat list of archive/object paths, one per line,
// consumed by libtool via -filelist.
const ManifestFile = "static-libs-list"

const archiveExt = ".a"

// Assembly describes the inputs of one link-set build.
type Assembly struct {
	// PluginsDir is searched recursively for plugin archives. Module
	// pruning must already have run against it.
	PluginsDir string

	// CoreArchives are the framework's main static libraries, in the
	// exact order they must appear in the manifest.
	CoreArchives []string

	// ContribDir is searched recursively for dependency archives.
	ContribDir string

	// BuildDir receives the manifest and the generated module-list
	// source and object.
	BuildDir string
}

// Run assembles the manifest: plugin archives (extracting each one's entry
// point on the way), the compiled module-list object, the core archives in
// their fixed order, and finally every contrib archive. It returns the
// manifest path and the discovered module names.
func (a *Assembly) Run(tc *toolchain.Toolchain) (string, []string, error) {
	manifestPath := filepath.Join(a.BuildDir, ManifestFile)
	os.Remove(manifestPath) // never accumulate across builds

	plugins, err := findArchives(a.PluginsDir)
	if err != nil {
		return "", nil, fmt.Errorf("searching plugin archives under %s: %w", a.PluginsDir, err)
	}

	var entries []string
	var modules []string
	for _, archive := range plugins {
		module, err := EntrySymbol(archive)
		if err != nil {
			return "", nil, err
		}
		modules = append(modules, module)
		entries = append(entries, archive)
	}

	srcPath, err := GenerateModuleList(a.BuildDir, modules)
	if err != nil {
		return "", nil, err
	}
	objPath, err := CompileModuleList(tc, srcPath)
	if err != nil {
		return "", nil, err
	}
	entries = append(entries, objPath)

	for _, core := range a.CoreArchives {
		if _, err := os.Stat(core); err != nil {
			return "", nil, fmt.Errorf("core archive %s missing, was the project built? %w", core, err)
		}
		entries = append(entries, core)
	}

	contribs, err := findArchives(a.ContribDir)
	if err != nil {
		return "", nil, fmt.Errorf("searching contrib archives under %s, were contribs built? %w", a.ContribDir, err)
	}
	entries = append(entries, contribs...)

	if err := writeManifest(manifestPath, entries); err != nil {
		return "", nil, err
	}
	return manifestPath, modules, nil
}

// findArchives recursively enumerates static archives under root. The walk
// passes paths through directly, so filenames with unusual characters
// survive intact. A missing or unreadable root is an error: it means an
// earlier build stage did not run.
func findArchives(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var archives []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), archiveExt) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archives, nil
}

func writeManifest(path string, entries []string) error {
	var sb strings.Builder
	for _, e := range entries {
		writeln(&sb, e)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
