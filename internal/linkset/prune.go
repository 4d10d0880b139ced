package linkset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MergeRemoval composes the module removal set: base names first, then the
// platform-specific extension, duplicates dropped on first occurrence. The
// result order is deterministic for a given input.
func MergeRemoval(base, platform []string) []string {
	merged := make([]string, 0, len(base)+len(platform))
	for _, name := range base {
		if !slices.Contains(merged, name) {
			merged = append(merged, name)
		}
	}
	for _, name := range platform {
		if !slices.Contains(merged, name) {
			merged = append(merged, name)
		}
	}
	return merged
}

// Prune deletes the archives of the named modules from the plugin install
// tree so they never reach symbol discovery. A name with no matching
// archive is not an error; the module may not have been built for this
// platform in the first place. Returns the paths that were removed.
func Prune(pluginsDir string, modules []string) ([]string, error) {
	if _, err := os.Stat(pluginsDir); err != nil {
		return nil, fmt.Errorf("plugin install tree: %w", err)
	}

	fsys := os.DirFS(pluginsDir)
	var removed []string
	for _, name := range modules {
		matches, err := doublestar.Glob(fsys, "**/lib"+escapeMeta(name)+"_plugin"+archiveExt, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching module %q: %w", name, err)
		}
		for _, match := range matches {
			full := filepath.Join(pluginsDir, match)
			if err := os.Remove(full); err != nil {
				return nil, fmt.Errorf("removing module archive %s: %w", full, err)
			}
			removed = append(removed, full)
		}
	}
	return removed, nil
}

// escapeMeta backslash-escapes glob metacharacters so a module name only
// ever matches its own archive.
func escapeMeta(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
