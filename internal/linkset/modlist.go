package linkset

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/JoyRichB/vlc/internal/msg"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

const (
	// ModuleListSource is the generated C file declaring every statically
	// linked plugin entry point.
	ModuleListSource = "static-module-list.c"

	// StaticModulesArray is the NULL-terminated table libvlccore walks at
	// startup instead of loading plugins dynamically.
	StaticModulesArray = "vlc_static_modules"
)

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

// ModuleListText renders the module-table source for the given module names
// in order. An empty list yields a table holding only the NULL sentinel,
// which is still valid C.
func ModuleListText(modules []string) (string, error) {
	for _, m := range modules {
		if !isCIdentifier(m) {
			return "", fmt.Errorf("module name %q is not usable as a C identifier", m)
		}
	}

	var sb strings.Builder
	writeln(&sb, "/* Autogenerated: entry points of the statically linked plugins. */")
	writeln(&sb)
	writeln(&sb, "#include <stddef.h>")
	writeln(&sb)
	writeln(&sb, "#define VLC_ENTRY(name) int vlc_entry__##name(int (*)(void *, void *, int, ...), void *)")
	writeln(&sb)
	for _, m := range modules {
		writeln(&sb, "VLC_ENTRY(", m, ");")
	}
	if len(modules) > 0 {
		writeln(&sb)
	}
	writeln(&sb, "const void *", StaticModulesArray, "[] = {")
	for _, m := range modules {
		writeln(&sb, "    vlc_entry__", m, ",")
	}
	writeln(&sb, "    NULL,")
	writeln(&sb, "};")
	return sb.String(), nil
}

// GenerateModuleList writes the module-table source into dir, replacing any
// previous copy, and returns its path.
func GenerateModuleList(dir string, modules []string) (string, error) {
	text, err := ModuleListText(modules)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ModuleListSource)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write module list: %w", err)
	}
	return path, nil
}

// CompileModuleList compiles the generated source to a relocatable object
// with the target toolchain and returns the object path. The generated
// source is template-driven, so a compiler rejection here is a code
// generation bug, not a user error.
func CompileModuleList(tc *toolchain.Toolchain, srcPath string) (string, error) {
	objPath := strings.TrimSuffix(srcPath, ".c") + ".o"
	os.Remove(objPath)

	args := append(tc.CFlags(), "-c", srcPath, "-o", objPath)
	cmd := exec.Command(tc.CC, args...)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: os.Stdout}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: os.Stderr}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("compiling generated module list %s: %w", srcPath, err)
	}
	return objPath, nil
}

func isCIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
