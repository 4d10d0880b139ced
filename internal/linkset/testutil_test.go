package linkset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/JoyRichB/vlc/internal/toolchain"
)

// nsym is a symbol to plant in a synthetic Mach-O object. sect 0 makes it
// an undefined reference, stab makes it a debugging entry.
type nsym struct {
	name string
	sect uint8
	stab bool
}

func defined(name string) nsym   { return nsym{name: name, sect: 1} }
func undefined(name string) nsym { return nsym{name: name} }

// machoObject builds a minimal arm64 Mach-O object file whose only load
// command is an LC_SYMTAB carrying the given symbols.
func machoObject(syms ...nsym) []byte {
	const (
		magic64     = 0xfeedfacf
		cpuArm64    = 0x0100000c
		mhObject    = 1
		lcSymtab    = 0x2
		headerSize  = 32
		symtabSize  = 24
		nlist64Size = 16
	)

	strtab := []byte{0}
	offsets := make([]uint32, len(syms))
	for i, s := range syms {
		offsets[i] = uint32(len(strtab))
		strtab = append(strtab, []byte(s.name)...)
		strtab = append(strtab, 0)
	}

	symoff := uint32(headerSize + symtabSize)
	stroff := symoff + uint32(len(syms)*nlist64Size)

	var buf bytes.Buffer
	le := binary.LittleEndian

	// mach_header_64
	for _, v := range []uint32{magic64, cpuArm64, 0, mhObject, 1, symtabSize, 0, 0} {
		binary.Write(&buf, le, v)
	}
	// LC_SYMTAB
	for _, v := range []uint32{lcSymtab, symtabSize, symoff, uint32(len(syms)), stroff, uint32(len(strtab))} {
		binary.Write(&buf, le, v)
	}
	// nlist_64 entries
	for i, s := range syms {
		var ntype uint8
		switch {
		case s.stab:
			ntype = 0x64 // N_SO
		case s.sect != 0:
			ntype = 0x0f // N_SECT | N_EXT
		default:
			ntype = 0x01 // N_UNDF | N_EXT
		}
		binary.Write(&buf, le, offsets[i])
		buf.WriteByte(ntype)
		buf.WriteByte(s.sect)
		binary.Write(&buf, le, uint16(0))
		binary.Write(&buf, le, uint64(0))
	}
	buf.Write(strtab)
	return buf.Bytes()
}

type arMember struct {
	name string
	data []byte
}

// arArchive serializes members into a BSD-style ar archive.
func arArchive(members ...arMember) []byte {
	var buf bytes.Buffer
	buf.WriteString(arMagic)
	for _, m := range members {
		fmt.Fprintf(&buf, "%-16s%-12d%-6d%-6d%-8o%-10d`\n", m.name, 0, 0, 0, 0644, len(m.data))
		buf.Write(m.data)
		if len(m.data)%2 == 1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// fatFile wraps the given ar payloads in a universal (fat) header.
func fatFile(slices ...[]byte) []byte {
	const archSize = 20
	var buf bytes.Buffer
	be := binary.BigEndian

	binary.Write(&buf, be, uint32(0xcafebabe))
	binary.Write(&buf, be, uint32(len(slices)))

	offset := 8 + len(slices)*archSize
	for i, s := range slices {
		binary.Write(&buf, be, uint32(0x0100000c)) // cputype
		binary.Write(&buf, be, uint32(i))          // cpusubtype
		binary.Write(&buf, be, uint32(offset))
		binary.Write(&buf, be, uint32(len(s)))
		binary.Write(&buf, be, uint32(0))
		offset += len(s)
	}
	for _, s := range slices {
		buf.Write(s)
	}
	return buf.Bytes()
}

// writePluginArchive drops a plugin archive with the given symbols at
// dir/name and returns its path.
func writePluginArchive(t *testing.T, dir, name string, syms ...nsym) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	data := arArchive(arMember{name: "module.o", data: machoObject(syms...)})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeTool writes an executable shell script that creates the file named by
// its -o argument, standing in for clang/libtool in pipeline tests.
func fakeTool(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "faketool")
	script := fmt.Sprintf(`#!/bin/sh
out=""
prev=""
for a in "$@"; do
	if [ "$prev" = "-o" ]; then out="$a"; fi
	prev="$a"
done
[ -n "$out" ] && : > "$out"
exit %d
`, exitCode)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeToolchain builds a toolchain whose compiler and libtool are stub
// scripts, so pipeline tests never need Xcode.
func fakeToolchain(t *testing.T) *toolchain.Toolchain {
	t.Helper()
	p, err := toolchain.PlatformForSDK("macosx")
	if err != nil {
		t.Fatal(err)
	}
	tool := fakeTool(t, 0)
	return &toolchain.Toolchain{
		Platform:         p,
		Arch:             "arm64",
		SDKPath:          t.TempDir(),
		CC:               tool,
		Libtool:          tool,
		DeploymentTarget: "10.11",
	}
}
