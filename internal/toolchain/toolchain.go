// Package toolchain resolves the Apple cross-compilation environment (SDK
// path, compiler, archiver, per-target flags) into an explicit value that is
// threaded through the build pipeline. Nothing downstream reads the process
// environment for correctness-critical configuration.
package toolchain

import (
	"fmt"
	"strings"
)

// Toolchain carries every tool path and flag one SDK/arch build needs.
type Toolchain struct {
	Platform         Platform
	Arch             string
	SDKPath          string
	CC               string
	Libtool          string
	DeploymentTarget string

	// ExtraCFlags and ExtraLDFlags come from configuration and are appended
	// after the computed base flags, so they win on conflicts.
	ExtraCFlags  []string
	ExtraLDFlags []string
}

// New resolves a toolchain for the given SDK/arch pair. Tool and SDK
// discovery goes through xcrun unless overridden via CC/LIBTOOL/SDKROOT.
func New(sdk, arch, deploymentTarget string) (*Toolchain, error) {
	platform, err := PlatformForSDK(sdk)
	if err != nil {
		return nil, err
	}
	if !platform.SupportsArch(arch) {
		return nil, fmt.Errorf("SDK %s cannot target arch %q (supported: %s)",
			sdk, arch, strings.Join(platform.Archs, ", "))
	}
	if deploymentTarget == "" {
		deploymentTarget = platform.DefaultMin
	}

	sdkPath, err := findSDKPath(sdk)
	if err != nil {
		return nil, err
	}
	cc, err := findTool(sdk, "clang", "CC")
	if err != nil {
		return nil, err
	}
	libtool, err := findTool(sdk, "libtool", "LIBTOOL")
	if err != nil {
		return nil, err
	}

	return &Toolchain{
		Platform:         platform,
		Arch:             arch,
		SDKPath:          sdkPath,
		CC:               cc,
		Libtool:          libtool,
		DeploymentTarget: deploymentTarget,
	}, nil
}

// CFlags composes the compiler flags for this target: base flags first,
// configured extras last.
func (tc *Toolchain) CFlags() []string {
	flags := []string{
		"-arch", tc.Arch,
		"-isysroot", tc.SDKPath,
		tc.Platform.MinFlag + tc.DeploymentTarget,
	}
	return append(flags, tc.ExtraCFlags...)
}

func (tc *Toolchain) LDFlags() []string {
	flags := []string{
		"-arch", tc.Arch,
		"-isysroot", tc.SDKPath,
		tc.Platform.MinFlag + tc.DeploymentTarget,
	}
	return append(flags, tc.ExtraLDFlags...)
}

// HostTriple returns the --host triple handed to configure scripts.
func (tc *Toolchain) HostTriple() string {
	machine, ok := tripleMachine[tc.Arch]
	if !ok {
		machine = tc.Arch
	}
	return machine + "-apple-" + tc.Platform.TripleOS
}

// Environ returns the explicit environment exported to configure/make
// subprocesses. The parent environment is not inherited implicitly for
// build-relevant variables; callers append this to a minimal base.
func (tc *Toolchain) Environ() []string {
	return []string{
		"CC=" + tc.CC,
		"CFLAGS=" + strings.Join(tc.CFlags(), " "),
		"LDFLAGS=" + strings.Join(tc.LDFlags(), " "),
		"SDKROOT=" + tc.SDKPath,
	}
}
