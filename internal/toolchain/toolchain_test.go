package toolchain

import (
	"slices"
	"strings"
	"testing"
)

func TestPlatformForSDK(t *testing.T) {
	tests := []struct {
		sdk       string
		wantErr   bool
		simulator bool
	}{
		{sdk: "macosx"},
		{sdk: "iphoneos"},
		{sdk: "iphonesimulator", simulator: true},
		{sdk: "appletvos"},
		{sdk: "appletvsimulator", simulator: true},
		{sdk: "watchos", wantErr: true},
		{sdk: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.sdk, func(t *testing.T) {
			p, err := PlatformForSDK(tt.sdk)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for SDK %q", tt.sdk)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlatformForSDK(%q): %v", tt.sdk, err)
			}
			if p.SDK != tt.sdk {
				t.Errorf("got SDK %q, want %q", p.SDK, tt.sdk)
			}
			if p.Simulator != tt.simulator {
				t.Errorf("Simulator = %v, want %v", p.Simulator, tt.simulator)
			}
			if len(p.Archs) == 0 {
				t.Error("platform has no archs")
			}
		})
	}
}

func TestSDKsSorted(t *testing.T) {
	sdks := SDKs()
	if !slices.IsSorted(sdks) {
		t.Errorf("SDKs() not sorted: %v", sdks)
	}
	if len(sdks) != 5 {
		t.Errorf("expected 5 SDKs, got %d", len(sdks))
	}
}

func TestCFlagComposition(t *testing.T) {
	p, err := PlatformForSDK("iphoneos")
	if err != nil {
		t.Fatal(err)
	}
	tc := &Toolchain{
		Platform:         p,
		Arch:             "arm64",
		SDKPath:          "/sdk/iPhoneOS.sdk",
		DeploymentTarget: "9.0",
		ExtraCFlags:      []string{"-Os", "-fvisibility=hidden"},
	}

	flags := tc.CFlags()
	joined := strings.Join(flags, " ")

	if !strings.Contains(joined, "-arch arm64") {
		t.Errorf("missing arch flag in %q", joined)
	}
	if !strings.Contains(joined, "-isysroot /sdk/iPhoneOS.sdk") {
		t.Errorf("missing isysroot in %q", joined)
	}
	if !strings.Contains(joined, "-miphoneos-version-min=9.0") {
		t.Errorf("missing deployment target in %q", joined)
	}

	// extras must come after base flags so they take precedence
	if flags[len(flags)-1] != "-fvisibility=hidden" || flags[len(flags)-2] != "-Os" {
		t.Errorf("extra cflags not appended last: %v", flags)
	}
}

func TestHostTriple(t *testing.T) {
	tests := []struct {
		sdk, arch, want string
	}{
		{"macosx", "arm64", "aarch64-apple-darwin"},
		{"macosx", "x86_64", "x86_64-apple-darwin"},
		{"iphoneos", "arm64", "aarch64-apple-darwin"},
	}

	for _, tt := range tests {
		p, err := PlatformForSDK(tt.sdk)
		if err != nil {
			t.Fatal(err)
		}
		tc := &Toolchain{Platform: p, Arch: tt.arch}
		if got := tc.HostTriple(); got != tt.want {
			t.Errorf("HostTriple(%s/%s) = %q, want %q", tt.sdk, tt.arch, got, tt.want)
		}
	}
}

func TestFindToolEnvOverride(t *testing.T) {
	t.Setenv("VLCBUILD_TEST_CC", "/opt/llvm/bin/clang")
	got, err := findTool("macosx", "clang", "VLCBUILD_TEST_CC")
	if err != nil {
		t.Fatalf("findTool(): %v", err)
	}
	if got != "/opt/llvm/bin/clang" {
		t.Errorf("findTool() = %q, want the override", got)
	}
}

func TestFindToolMissing(t *testing.T) {
	t.Setenv("VLCBUILD_TEST_CC", "")
	_, err := findTool("macosx", "vlcbuild-no-such-tool", "VLCBUILD_TEST_CC")
	if err == nil {
		t.Fatal("expected error for a tool that exists nowhere")
	}
	if !strings.Contains(err.Error(), "vlcbuild-no-such-tool") {
		t.Errorf("error does not name the tool: %v", err)
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error wraps a nil cause: %v", err)
	}
}

func TestArchValidation(t *testing.T) {
	p, err := PlatformForSDK("iphoneos")
	if err != nil {
		t.Fatal(err)
	}
	if p.SupportsArch("x86_64") {
		t.Error("iphoneos should not target x86_64")
	}
	if !p.SupportsArch("arm64") {
		t.Error("iphoneos should target arm64")
	}
}
