// Package stamp rewrites version markers inside source files in place.
// A stamp is a raw line-pattern substitution: everything outside the matched
// spans is preserved byte for byte, which is why the files are not parsed
// as YAML or Python.
package stamp

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Revise replaces every match of pattern in the named file with replacement
// and writes the file back in place. The file's permission bits are kept.
// A missing file is an error; a file without any match is rewritten
// unchanged.
func Revise(filename, pattern, replacement string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid stamp pattern %q: %w", pattern, err)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("stamp %s: %w", filename, err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stamp %s: %w", filename, err)
	}

	revised := re.ReplaceAll(content, []byte(replacement))
	if err := os.WriteFile(filename, revised, info.Mode().Perm()); err != nil {
		return fmt.Errorf("stamp %s: %w", filename, err)
	}
	return nil
}

// Apply stamps the requested version into the three contractual files of a
// model repository rooted at repoDir: the conda recipe metadata, the setup.py
// build descriptor, and the package's __init__.py version marker.
func Apply(repoDir, pkg, version string) error {
	revisions := []struct {
		file        string
		pattern     string
		replacement string
	}{
		{
			file:        filepath.Join(repoDir, "conda.recipe", "meta.yaml"),
			pattern:     `version: .*`,
			replacement: "version: " + version,
		},
		{
			file:        filepath.Join(repoDir, "setup.py"),
			pattern:     `version = .*`,
			replacement: fmt.Sprintf("version = %q", version),
		},
		{
			file:        filepath.Join(repoDir, pkg, "__init__.py"),
			pattern:     `__version__ = .*`,
			replacement: fmt.Sprintf("__version__ = %q", version),
		},
	}

	for _, r := range revisions {
		if err := Revise(r.file, r.pattern, r.replacement); err != nil {
			return err
		}
	}
	return nil
}
