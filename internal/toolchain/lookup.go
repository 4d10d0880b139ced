package toolchain

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// findTool locates a toolchain binary for the given SDK. An environment
// override (e.g. CC=) wins; otherwise xcrun is asked, and as a last resort
// the tool is looked up on PATH.
func findTool(sdk, tool, envVar string) (string, error) {
	if override := os.Getenv(envVar); override != "" {
		return override, nil
	}

	out, xerr := xcrun("--sdk", sdk, "--find", tool)
	if xerr == nil && out != "" {
		return out, nil
	}

	if path, err := exec.LookPath(tool); err == nil {
		return path, nil
	}

	if xerr != nil {
		return "", fmt.Errorf("required tool %q not found for SDK %s: %w", tool, sdk, xerr)
	}
	return "", fmt.Errorf("required tool %q not found for SDK %s: xcrun reported an empty path", tool, sdk)
}

// findSDKPath resolves the SDK root directory, honoring SDKROOT.
func findSDKPath(sdk string) (string, error) {
	if override := os.Getenv("SDKROOT"); override != "" {
		return override, nil
	}

	out, err := xcrun("--sdk", sdk, "--show-sdk-path")
	if err != nil {
		return "", fmt.Errorf("could not resolve path of SDK %s: %w", sdk, err)
	}
	if out == "" {
		return "", fmt.Errorf("xcrun reported an empty path for SDK %s", sdk)
	}
	return out, nil
}

func xcrun(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("xcrun", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("xcrun %s: %s", strings.Join(args, " "), msg)
		}
		return "", fmt.Errorf("xcrun %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
