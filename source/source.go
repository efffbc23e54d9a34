// Package source acquires the working tree a release is built from, either
// by copying a local checkout or by shallow-cloning a tagged revision.
package source

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pslmodels/pkgbld/run"
)

// Ignore reports whether a file or directory name is excluded from a copy.
type Ignore func(name string) bool

// DefaultIgnore excludes compiled bytecode, generated HTML and test files
// from local source copies.
func DefaultIgnore(name string) bool {
	return strings.HasSuffix(name, ".pyc") ||
		strings.HasSuffix(name, ".html") ||
		strings.HasPrefix(name, "test_")
}

// CopyTree recursively copies the tree rooted at src to dst, skipping any
// file or directory whose base name the ignore function rejects. dst and any
// needed parents are created. Only regular files and directories are copied.
func CopyTree(src, dst string, ignore Ignore) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("copy source tree: %w", err)
		}
		if path != src && ignore != nil && ignore(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return nil
}

// Clone performs a shallow, single-revision fetch of the exact tag from url,
// run inside dir. git names the resulting directory after the repository
// component of url. A missing tag or network failure surfaces git's exit
// status.
func Clone(r run.Runner, dir, url, tag string) error {
	return r.Run(dir, "git", "clone", "--branch", tag, "--depth", "1", url)
}
