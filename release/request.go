package release

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// versionPattern is the strict X.Y.Z gate. It is authoritative: anything it
// rejects is never released, whatever looser version schemes might accept.
var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// Request is the immutable tuple describing one release. It is validated
// once at entry and never mutated.
type Request struct {
	// Repo is the model repository name appended to the source-hosting URL.
	Repo string
	// Pkg is the package name inside the repository.
	Pkg string
	// Version is the release version in X.Y.Z form; it must be a release
	// tag of the repository unless Local is set.
	Version string
	// Local builds from the current working directory and installs the
	// result locally instead of uploading it.
	Local bool
	// DryRun prints the execution plan and stops.
	DryRun bool
	// Channels are extra distribution channels consulted during the build,
	// in caller-supplied order, ahead of defaults and the publishing
	// channel.
	Channels []string
}

// Validate is the fail-fast precondition gate: it confirms the request
// before any side effect. cwd is the caller's current working directory,
// checked in local mode against the repository layout.
func (r Request) Validate(cwd string) error {
	if r.Repo == "" {
		return fmt.Errorf("repo_name is empty")
	}
	if r.Pkg == "" {
		return fmt.Errorf("pkg_name is empty")
	}
	if r.Version == "" {
		return fmt.Errorf("version is empty")
	}
	if !versionPattern.MatchString(r.Version) {
		return fmt.Errorf("version=%s does not have X.Y.Z semantic-versioning pattern", r.Version)
	}
	if r.Local {
		if filepath.Base(cwd) != r.Repo {
			return fmt.Errorf("cwd=%s does not correspond to repo_name=%s", cwd, r.Repo)
		}
		pkgDir := filepath.Join(cwd, r.Pkg)
		info, err := os.Stat(pkgDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("cwd=%s does not contain subdirectory %s", cwd, r.Pkg)
		}
	}
	return nil
}
