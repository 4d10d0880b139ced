package config

import (
	"slices"
	"strings"
	"testing"
)

const sampleConfig = `
[build]
sdk = "iphoneos"
arch = "arm64"
deployment-target = "9.0"
cflags = ["-Os"]

[build.'simulator']
cflags = ["-fembed-bitcode-marker"]

[modules]
remove = ["lua", "securetransport"]

[modules.'sdk == "macosx"']
remove = ["screen"]

[modules.'sdk startsWith "iphone"']
remove = ["dbus", "lua"]

[contrib.a52]
source = "gh:videolan/liba52"
configure = ["--disable-oss"]

[contrib.ffmpeg]
source = "https://ffmpeg.org/releases/ffmpeg-6.1.tar.gz"
patches = { "configure" = "patches/ffmpeg-static.patch" }
`

func envFor(sdk, arch string) Env {
	return Env{SDK: sdk, Arch: arch, Simulator: strings.HasSuffix(sdk, "simulator"), Environ: map[string]string{}}
}

func TestParseBase(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig), envFor("macosx", "arm64"))
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}

	if cfg.Build.SDK != "iphoneos" || cfg.Build.DeploymentTarget != "9.0" {
		t.Errorf("unexpected [build] section: %+v", cfg.Build)
	}
	if len(cfg.Contribs) != 2 {
		t.Errorf("expected 2 contrib recipes, got %d", len(cfg.Contribs))
	}
	if cfg.Contribs["a52"].Source != "gh:videolan/liba52" {
		t.Errorf("contrib a52 source = %q", cfg.Contribs["a52"].Source)
	}
}

func TestConditionalModuleRemoval(t *testing.T) {
	tests := []struct {
		sdk  string
		want []string
	}{
		// base first, then matching platform extensions in deterministic order
		{sdk: "macosx", want: []string{"lua", "securetransport", "screen"}},
		{sdk: "iphoneos", want: []string{"lua", "securetransport", "dbus", "lua"}},
		{sdk: "appletvos", want: []string{"lua", "securetransport"}},
	}

	for _, tt := range tests {
		t.Run(tt.sdk, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(sampleConfig), envFor(tt.sdk, "arm64"))
			if err != nil {
				t.Fatalf("Parse(): %v", err)
			}
			if !slices.Equal(cfg.Modules.Remove, tt.want) {
				t.Errorf("Modules.Remove = %v, want %v", cfg.Modules.Remove, tt.want)
			}
		})
	}
}

func TestConditionalBuildFlags(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig), envFor("iphonesimulator", "x86_64"))
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	want := []string{"-Os", "-fembed-bitcode-marker"}
	if !slices.Equal(cfg.Build.Cflags, want) {
		t.Errorf("Cflags = %v, want %v", cfg.Build.Cflags, want)
	}
}

func TestStringExpressions(t *testing.T) {
	src := `
[build]
prefix = "{{ environ.BUILD_ROOT }}/install-{{ sdk }}-{{ arch }}"
`
	env := envFor("iphoneos", "arm64")
	env.Environ["BUILD_ROOT"] = "/work"

	cfg, err := Parse(strings.NewReader(src), env)
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if cfg.Build.Prefix != "/work/install-iphoneos-arm64" {
		t.Errorf("Prefix = %q", cfg.Build.Prefix)
	}
}

func TestParseRejectsBadExpression(t *testing.T) {
	src := `
[build]
prefix = "{{ no_such_var + }}"
`
	if _, err := Parse(strings.NewReader(src), envFor("macosx", "arm64")); err == nil {
		t.Fatal("expected error for malformed expression")
	}
}
