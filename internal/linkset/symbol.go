// Package linkset assembles the static link set of a VLC Apple build: it
// discovers plugin entry points, generates and compiles the static module
// table, and produces the archive manifest handed to libtool.
package linkset

import (
	"bytes"
	"debug/macho"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// EntryPrefix is how a plugin's module-registration function appears in a
// Mach-O symbol table: the C symbol vlc_entry__<module> plus the Mach-O
// leading underscore.
const EntryPrefix = "_vlc_entry__"

var (
	// ErrEntryNotFound means an otherwise valid plugin archive defines no
	// module entry function, i.e. the plugin was miscompiled.
	ErrEntryNotFound = errors.New("module entry function not found")

	// ErrMultipleEntries means an archive defines more than one module
	// entry function. A well-formed plugin defines exactly one.
	ErrMultipleEntries = errors.New("multiple module entry functions defined")
)

const nStab = 0xe0 // N_STAB mask in the symbol type byte

// EntrySymbol inspects a plugin archive and returns the module name of its
// single defined entry-point symbol, with the EntryPrefix already stripped.
func EntrySymbol(path string) (string, error) {
	raw, err := archiveSlices(path)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", path, err)
	}

	var names []string
	objects := 0
	for _, slice := range raw {
		members, err := parseArchive(slice)
		if err != nil {
			return "", fmt.Errorf("inspect %s: %w", path, err)
		}
		for _, m := range members {
			if !isMachO(m.data) {
				continue
			}
			objects++
			f, err := macho.NewFile(bytes.NewReader(m.data))
			if err != nil {
				return "", fmt.Errorf("inspect %s (%s): %w", path, m.name, err)
			}
			for _, name := range definedEntries(f) {
				if !slices.Contains(names, name) {
					names = append(names, name)
				}
			}
			f.Close()
		}
	}

	if objects == 0 {
		return "", fmt.Errorf("inspect %s: archive contains no object files", path)
	}

	switch len(names) {
	case 0:
		return "", fmt.Errorf("%s: %w", path, ErrEntryNotFound)
	case 1:
		// fallthrough below
	default:
		return "", fmt.Errorf("%s: %w (%s)", path, ErrMultipleEntries, strings.Join(names, ", "))
	}

	module := strings.TrimPrefix(names[0], EntryPrefix)
	if module == "" {
		return "", fmt.Errorf("%s: %w (symbol %q has an empty module name)", path, ErrEntryNotFound, names[0])
	}
	return module, nil
}

// definedEntries returns every entry-point symbol the object actually
// defines. Undefined references (a plugin calling into another) and
// debugging stabs do not count.
func definedEntries(f *macho.File) []string {
	if f.Symtab == nil {
		return nil
	}
	var names []string
	for _, sym := range f.Symtab.Syms {
		if sym.Type&nStab != 0 || sym.Sect == 0 {
			continue
		}
		if strings.HasPrefix(sym.Name, EntryPrefix) {
			names = append(names, sym.Name)
		}
	}
	return names
}
