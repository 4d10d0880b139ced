package contrib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// applyPatch patches one file inside a fetched source tree. The patch file
// is in diff-match-patch text format; a patch where no hunk applies is an
// error, since the recipe depends on the change being present.
func applyPatch(srcDir, target, patchPath string) error {
	fullPath := filepath.Join(srcDir, target)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Errorf("patch target %s: %w", fullPath, err)
	}

	patchText, err := os.ReadFile(patchPath)
	if err != nil {
		return fmt.Errorf("patch file %s: %w", patchPath, err)
	}

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(string(patchText))
	if err != nil {
		return fmt.Errorf("parse patch %s: %w", patchPath, err)
	}

	patchedText, results := dmp.PatchApply(patches, string(data))
	applied := false
	for _, ok := range results {
		if ok {
			applied = true
			break
		}
	}
	if !applied {
		return fmt.Errorf("patch %s did not apply to %s", patchPath, fullPath)
	}

	if err := os.WriteFile(fullPath, []byte(patchedText), 0644); err != nil {
		return fmt.Errorf("write patched %s: %w", fullPath, err)
	}
	return nil
}
