package linkset

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestMergeRemoval(t *testing.T) {
	tests := []struct {
		name           string
		base, platform []string
		want           []string
	}{
		{
			name:     "base then platform",
			base:     []string{"lua", "screen"},
			platform: []string{"xml", "dbus"},
			want:     []string{"lua", "screen", "xml", "dbus"},
		},
		{
			name:     "duplicates collapse to first occurrence",
			base:     []string{"lua", "xml"},
			platform: []string{"xml", "lua", "dbus"},
			want:     []string{"lua", "xml", "dbus"},
		},
		{
			name: "both empty",
			want: []string{},
		},
		{
			name:     "platform only",
			platform: []string{"securetransport"},
			want:     []string{"securetransport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeRemoval(tt.base, tt.platform)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MergeRemoval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	keep := writePluginArchive(t, dir, "libkeep_plugin.a", defined("_vlc_entry__KEEP"))
	writePluginArchive(t, dir, "libdrop_plugin.a", defined("_vlc_entry__DROP"))
	nested := writePluginArchive(t, dir, filepath.Join("access", "libdrop2_plugin.a"), defined("_vlc_entry__DROP2"))

	removed, err := Prune(dir, []string{"drop", "drop2", "nonexistent"})
	if err != nil {
		t.Fatalf("Prune(): %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed %d archives, want 2: %v", len(removed), removed)
	}

	if _, err := os.Stat(keep); err != nil {
		t.Errorf("surviving module was deleted: %v", err)
	}
	if _, err := os.Stat(nested); err == nil {
		t.Error("nested blacklisted module still present")
	}
}

func TestPruneLiteralNames(t *testing.T) {
	dir := t.TempDir()
	a := writePluginArchive(t, dir, "liba_plugin.a", defined("_vlc_entry__A"))
	b := writePluginArchive(t, dir, filepath.Join("codec", "libb_plugin.a"), defined("_vlc_entry__B"))

	removed, err := Prune(dir, []string{"*", "?", "[ab]"})
	if err != nil {
		t.Fatalf("Prune(): %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("metacharacter names removed archives: %v", removed)
	}
	for _, path := range []string{a, b} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("archive deleted by metacharacter name: %v", err)
		}
	}
}

func TestPruneMissingTree(t *testing.T) {
	if _, err := Prune(filepath.Join(t.TempDir(), "nope"), []string{"lua"}); err == nil {
		t.Fatal("expected error for missing plugin tree")
	}
}
