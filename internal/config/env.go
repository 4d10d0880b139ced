package config

import (
	"os"
	"strings"
)

// Env is what configuration expressions can see: the target SDK and arch,
// whether the target is a simulator, and the process environment.
type Env struct {
	SDK       string            `expr:"sdk"`
	Arch      string            `expr:"arch"`
	Simulator bool              `expr:"simulator"`
	Environ   map[string]string `expr:"environ"`
}

// NewEnv builds the expression environment for one SDK/arch target.
func NewEnv(sdk, arch string) Env {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return Env{
		SDK:       sdk,
		Arch:      arch,
		Simulator: strings.HasSuffix(sdk, "simulator"),
		Environ:   environ,
	}
}
