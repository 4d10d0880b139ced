package linkset

import (
	"debug/macho"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const arMagic = "!<arch>\n"

var errNotArchive = errors.New("not a static archive")

// member is one file inside an ar archive.
type member struct {
	name string
	data []byte
}

// archiveSlices reads a static archive from disk and returns the raw bytes
// of each contained ar archive: one slice for a thin archive, one per arch
// for a universal (fat) file.
func archiveSlices(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) >= 4 && binary.BigEndian.Uint32(data[:4]) == macho.MagicFat {
		return fatSlices(data)
	}
	return [][]byte{data}, nil
}

// fatSlices splits a universal file into its per-arch payloads. The fat
// header is big-endian regardless of the contained slices.
func fatSlices(data []byte) ([][]byte, error) {
	if len(data) < 8 {
		return nil, errors.New("truncated fat header")
	}
	narch := binary.BigEndian.Uint32(data[4:8])
	if narch == 0 {
		return nil, errors.New("fat file contains no slices")
	}

	// fat_arch: cputype, cpusubtype, offset, size, align (5 x uint32)
	const archSize = 20
	if uint64(len(data)) < 8+uint64(narch)*archSize {
		return nil, errors.New("truncated fat arch table")
	}

	slices := make([][]byte, 0, narch)
	for i := uint32(0); i < narch; i++ {
		rec := data[8+i*archSize:]
		offset := uint64(binary.BigEndian.Uint32(rec[8:12]))
		size := uint64(binary.BigEndian.Uint32(rec[12:16]))
		if offset+size > uint64(len(data)) {
			return nil, fmt.Errorf("fat slice %d extends past end of file", i)
		}
		slices = append(slices, data[offset:offset+size])
	}
	return slices, nil
}

// parseArchive walks the members of one ar archive. Handles BSD "#1/<n>"
// extended names (the common case for Mach-O archives) and trims the GNU
// trailing slash for portability.
func parseArchive(data []byte) ([]member, error) {
	if len(data) < len(arMagic) || string(data[:len(arMagic)]) != arMagic {
		return nil, errNotArchive
	}

	var members []member
	off := len(arMagic)
	for off < len(data) {
		if off+60 > len(data) {
			return nil, fmt.Errorf("truncated member header at offset %d", off)
		}
		hdr := data[off : off+60]
		if hdr[58] != 0x60 || hdr[59] != 0x0a {
			return nil, fmt.Errorf("bad member header magic at offset %d", off)
		}

		name := strings.TrimRight(string(hdr[0:16]), " ")
		size, err := strconv.Atoi(strings.TrimSpace(string(hdr[48:58])))
		if err != nil || size < 0 {
			return nil, fmt.Errorf("bad member size at offset %d", off)
		}
		off += 60
		if off+size > len(data) {
			return nil, fmt.Errorf("member %q extends past end of archive", name)
		}

		payload := data[off : off+size]
		if strings.HasPrefix(name, "#1/") {
			nameLen, err := strconv.Atoi(name[len("#1/"):])
			if err != nil || nameLen < 0 || nameLen > size {
				return nil, fmt.Errorf("bad extended name length in member at offset %d", off-60)
			}
			name = strings.TrimRight(string(payload[:nameLen]), "\x00")
			payload = payload[nameLen:]
		} else {
			name = strings.TrimSuffix(name, "/")
		}

		members = append(members, member{name: name, data: payload})

		off += size
		if size%2 == 1 {
			off++ // members are 2-byte aligned
		}
	}
	return members, nil
}

// isMachO reports whether the member payload starts with a Mach-O magic.
// Archive symbol indexes (__.SYMDEF) and the like are skipped this way.
func isMachO(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	magic := binary.LittleEndian.Uint32(data[:4])
	return magic == macho.Magic32 || magic == macho.Magic64
}
