// Package release implements the package release procedure: validate the
// request, stage the source at the requested version, stamp the version into
// the tree, invoke the build/upload tool, optionally install locally, and
// clean up. The procedure is strictly sequential; concurrent invocations
// against the same working directory are not supported.
package release

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pslmodels/pkgbld/conda"
	"github.com/pslmodels/pkgbld/github"
	"github.com/pslmodels/pkgbld/manifest"
	"github.com/pslmodels/pkgbld/run"
	"github.com/pslmodels/pkgbld/source"
	"github.com/pslmodels/pkgbld/stamp"
)

// Orchestrator runs release procedures against a fixed configuration.
type Orchestrator struct {
	cfg    Config
	runner run.Runner

	// Out receives the plan and progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// New returns an orchestrator using the given configuration and runner.
func New(cfg Config, runner run.Runner) *Orchestrator {
	return &Orchestrator{cfg: cfg, runner: runner, Out: os.Stdout}
}

// Release performs the full procedure for one request. Success is returning
// nil; any error is fatal and the procedure stops where it failed, except
// that cleanup always runs once the build stage has been reached. Partial
// state from a failed run is left behind for inspection and forcibly cleared
// by the next invocation.
func (o *Orchestrator) Release(req Request) (err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine current directory: %w", err)
	}
	if err := req.Validate(cwd); err != nil {
		return err
	}

	o.plan(req)
	if req.DryRun {
		fmt.Fprintln(o.Out, ": Package-Builder is quitting")
		return nil
	}

	log := newLogger(o.Out, o.cfg.LogFile)
	defer log.Close()
	log.Printf("Package-Builder is starting at %s", time.Now().Format(time.ANSIC))

	// Forcibly clear any stale working directory from a prior run.
	if err := os.RemoveAll(o.cfg.WorkingDir); err != nil {
		return fmt.Errorf("remove stale working directory: %w", err)
	}

	repoDir := filepath.Join(o.cfg.WorkingDir, req.Repo)
	if req.Local {
		log.Printf("Package-Builder is copying local source code")
		if err := source.CopyTree(cwd, repoDir, source.DefaultIgnore); err != nil {
			return err
		}
	} else {
		if err := o.checkTag(log, req); err != nil {
			return err
		}
		log.Printf("Package-Builder is cloning repository code for %s", req.Version)
		if err := os.Mkdir(o.cfg.WorkingDir, 0755); err != nil {
			return fmt.Errorf("create working directory: %w", err)
		}
		url := o.cloneURL(req.Repo)
		if err := source.Clone(o.runner, o.cfg.WorkingDir, url, req.Version); err != nil {
			return fmt.Errorf("clone %s at tag %s: %w", url, req.Version, err)
		}
	}

	log.Printf("Package-Builder is setting version")
	if err := stamp.Apply(repoDir, req.Pkg, req.Version); err != nil {
		return err
	}

	if err := o.runner.Run(repoDir, conda.Tool, conda.UploadConfigArgs(!req.Local)...); err != nil {
		return fmt.Errorf("configure upload mode: %w", err)
	}

	// The build stage is reached: cleanup now runs on every exit path.
	defer func() {
		cerr := o.cleanup(log)
		if err == nil {
			err = cerr
		}
		if err == nil {
			log.Printf("Package-Builder is finishing at %s", time.Now().Format(time.ANSIC))
		}
	}()

	log.Printf("Package-Builder is building package")
	channels := conda.Channels(req.Channels, o.cfg.AnacondaChannel)
	buildArgs := conda.BuildArgs(o.cfg.TokenValue(), o.cfg.AnacondaUser, o.cfg.BuildsDir, channels)
	if err := o.runner.Run(repoDir, conda.Tool, buildArgs...); err != nil {
		return fmt.Errorf("build package: %w", err)
	}

	log.Printf("Package-Builder is writing artifact manifest")
	outDir := filepath.Join(repoDir, o.cfg.BuildsDir)
	m, err := manifest.Collect(outDir, req.Pkg, req.Version)
	if err != nil {
		return err
	}
	path, err := m.Write(o.cfg.ManifestDir, o.cfg.SigningKey)
	if err != nil {
		return err
	}
	log.Printf("Package-Builder wrote %s", path)

	if req.Local {
		log.Printf("Package-Builder is uninstalling any existing package")
		if uerr := o.runner.Run(repoDir, conda.Tool, conda.UninstallArgs(req.Pkg)...); uerr != nil {
			// Nothing was installed before; not a precondition for installing.
			log.Printf("Package-Builder is ignoring uninstall failure: %v", uerr)
		}
		log.Printf("Package-Builder is installing package on local computer")
		channel := "file://" + outDir
		if err := o.runner.Run(repoDir, conda.Tool, conda.InstallArgs(channel, req.Pkg, req.Version)...); err != nil {
			return fmt.Errorf("install package: %w", err)
		}
	}

	return nil
}

// plan prints the resolved request. It writes to Out only; dry runs must
// leave no other trace.
func (o *Orchestrator) plan(req Request) {
	fmt.Fprintln(o.Out, ": Package-Builder will build model packages for:")
	fmt.Fprintf(o.Out, ":   repository_name = %s\n", req.Repo)
	fmt.Fprintf(o.Out, ":   package_name = %s\n", req.Pkg)
	fmt.Fprintf(o.Out, ":   model_version = %s\n", req.Version)
	fmt.Fprintf(o.Out, ":   additional channels = %v\n", req.Channels)
	if req.Local {
		fmt.Fprintln(o.Out, ": Package-Builder will install package on local computer")
		return
	}
	fmt.Fprintln(o.Out, ": Package-Builder will upload model packages to:")
	fmt.Fprintf(o.Out, ":   Anaconda channel = %s\n", o.cfg.AnacondaChannel)
	if o.cfg.Token != "" {
		fmt.Fprintln(o.Out, ":   using token from environment")
	} else {
		fmt.Fprintf(o.Out, ":   using token in file = %s\n", o.cfg.TokenFile)
	}
}

// checkTag verifies via the GitHub API that the requested version is a tag
// of the repository, giving a clearer error than the clone's exit status.
// API trouble only downgrades to a notice: the pre-flight must never block a
// release git could perform.
func (o *Orchestrator) checkTag(log *logger, req Request) error {
	owner, err := github.OwnerFromURL(o.cfg.GitHubURL)
	if err != nil {
		log.Printf("Package-Builder is skipping tag check: %v", err)
		return nil
	}
	ok, err := github.TagExists(owner, req.Repo, req.Version, o.cfg.GitHubToken)
	if err != nil {
		log.Printf("Package-Builder is skipping tag check: %v", err)
		return nil
	}
	if !ok {
		return fmt.Errorf("version %s is not a release tag of %s/%s", req.Version, owner, req.Repo)
	}
	return nil
}

func (o *Orchestrator) cloneURL(repo string) string {
	return strings.TrimSuffix(o.cfg.GitHubURL, "/") + "/" + repo + "/"
}

// cleanup purges the build tool's package cache, returns to the home
// directory and removes the working tree.
func (o *Orchestrator) cleanup(log *logger) error {
	log.Printf("Package-Builder is cleaning-up")
	if err := o.runner.Run(o.cfg.HomeDir, conda.Tool, conda.PurgeArgs()...); err != nil {
		return fmt.Errorf("purge build cache: %w", err)
	}
	if err := os.Chdir(o.cfg.HomeDir); err != nil {
		return fmt.Errorf("change to home directory: %w", err)
	}
	if err := os.RemoveAll(o.cfg.WorkingDir); err != nil {
		return fmt.Errorf("remove working directory: %w", err)
	}
	return nil
}
