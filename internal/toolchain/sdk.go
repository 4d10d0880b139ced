package toolchain

import (
	"fmt"
	"slices"
	"strings"
)

// Platform describes one Apple SDK target.
type Platform struct {
	SDK        string   // xcrun SDK name
	TripleOS   string   // OS part of the configure host triple
	Simulator  bool
	Archs      []string // archs buildable against this SDK
	MinFlag    string   // compiler deployment-target flag, without the version
	DefaultMin string
}

var platforms = []Platform{
	{
		SDK:        "macosx",
		TripleOS:   "darwin",
		Archs:      []string{"arm64", "x86_64"},
		MinFlag:    "-mmacosx-version-min=",
		DefaultMin: "10.11",
	},
	{
		SDK:        "iphoneos",
		TripleOS:   "darwin",
		Archs:      []string{"arm64"},
		MinFlag:    "-miphoneos-version-min=",
		DefaultMin: "9.0",
	},
	{
		SDK:        "iphonesimulator",
		TripleOS:   "darwin",
		Simulator:  true,
		Archs:      []string{"arm64", "x86_64"},
		MinFlag:    "-mios-simulator-version-min=",
		DefaultMin: "9.0",
	},
	{
		SDK:        "appletvos",
		TripleOS:   "darwin",
		Archs:      []string{"arm64"},
		MinFlag:    "-mtvos-version-min=",
		DefaultMin: "10.2",
	},
	{
		SDK:        "appletvsimulator",
		TripleOS:   "darwin",
		Simulator:  true,
		Archs:      []string{"arm64", "x86_64"},
		MinFlag:    "-mtvos-simulator-version-min=",
		DefaultMin: "10.2",
	},
}

// PlatformForSDK looks a platform up by its xcrun SDK name.
func PlatformForSDK(sdk string) (Platform, error) {
	for _, p := range platforms {
		if p.SDK == sdk {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unknown SDK %q, known SDKs: %s", sdk, strings.Join(SDKs(), ", "))
}

// SDKs returns every supported SDK name, sorted.
func SDKs() []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.SDK)
	}
	slices.Sort(names)
	return names
}

// SupportsArch reports whether the platform can target the given arch.
func (p Platform) SupportsArch(arch string) bool {
	return slices.Contains(p.Archs, arch)
}

// tripleMachine maps our arch names to the machine part of a GNU triple.
var tripleMachine = map[string]string{
	"arm64":  "aarch64",
	"x86_64": "x86_64",
}
