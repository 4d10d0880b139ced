package contrib

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JoyRichB/vlc/internal/msg"
)

// downloadAndExtractArchive fetches a source tarball and unpacks it into
// toWhere, stripping the single top-level directory tarballs conventionally
// carry.
func downloadAndExtractArchive(url, toWhere string) (string, error) {
	tmp := filepath.Join(os.TempDir(), "vlcbuild-"+uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)
	defer f.Close()

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: %s", url, resp.Status)
	}

	pb := msg.NewProgressBar(resp.ContentLength, 4, os.Stdout)
	if _, err := io.Copy(f, io.TeeReader(resp.Body, pb)); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	pb.Finish()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if err := extractTarball(f, url, toWhere); err != nil {
		return "", fmt.Errorf("extracting %s: %w", url, err)
	}
	return toWhere, nil
}

func extractTarball(f *os.File, name, toWhere string) error {
	var rdr io.Reader
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		rdr = gz
	case strings.HasSuffix(name, ".tar.bz2"):
		rdr = bzip2.NewReader(f)
	case strings.HasSuffix(name, ".tar"):
		rdr = f
	default:
		return fmt.Errorf("unsupported archive format: %s", name)
	}

	if err := os.MkdirAll(toWhere, 0755); err != nil {
		return err
	}
	realRoot, err := filepath.EvalSymlinks(toWhere)
	if err != nil {
		return err
	}

	tr := tar.NewReader(rdr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rel := stripLeadingComponent(hdr.Name)
		if rel == "" {
			continue
		}
		dest, err := securePath(toWhere, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := securedMkdir(realRoot, filepath.Dir(dest)); err != nil {
				return err
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := secureLinkTarget(toWhere, rel, hdr.Linkname); err != nil {
				return err
			}
			if err := securedMkdir(realRoot, filepath.Dir(dest)); err != nil {
				return err
			}
			os.Remove(dest)
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return err
			}
		}
	}
}

// stripLeadingComponent drops the top-level "pkg-1.2.3/" path component.
func stripLeadingComponent(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// securePath joins rel under root and rejects traversal outside it.
func securePath(root, rel string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(dest, filepath.Clean(root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes extraction root", rel)
	}
	return dest, nil
}

// secureLinkTarget rejects symlink members whose target resolves outside
// the extraction root, so later members cannot be routed through them.
func secureLinkTarget(root, rel, target string) error {
	if filepath.IsAbs(target) {
		return fmt.Errorf("archive symlink %q has absolute target %q", rel, target)
	}
	resolved := filepath.Join(root, filepath.Dir(filepath.FromSlash(rel)), filepath.FromSlash(target))
	clean := filepath.Clean(root)
	if resolved != clean && !strings.HasPrefix(resolved, clean+string(os.PathSeparator)) {
		return fmt.Errorf("archive symlink %q escapes extraction root", rel)
	}
	return nil
}

// securedMkdir creates the member's parent directory and verifies it still
// resolves inside the extraction root, catching writes routed through a
// previously planted symlink.
func securedMkdir(realRoot, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(os.PathSeparator)) {
		return fmt.Errorf("archive member path %s resolves outside extraction root", dir)
	}
	return nil
}
