// Command pkgbld builds and publishes versioned conda packages for Policy
// Simulation Library model repositories.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pslmodels/pkgbld/conda"
	"github.com/pslmodels/pkgbld/github"
	"github.com/pslmodels/pkgbld/release"
	"github.com/pslmodels/pkgbld/run"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pkgbld <command> [flags]")
		fmt.Println("Commands: release, tags, purge")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "release":
		releaseCmd(os.Args[2:])
	case "tags":
		tagsCmd(os.Args[2:])
	case "purge":
		purgeCmd(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// channelList collects repeatable -channel flags in caller order.
type channelList []string

func (c *channelList) String() string { return strings.Join(*c, ",") }

func (c *channelList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

func releaseCmd(args []string) {
	fs := flag.NewFlagSet("release", flag.ExitOnError)
	repo := fs.String("repo", "", "Model repository name (e.g. Tax-Calculator)")
	pkg := fs.String("pkg", "", "Package name inside the repository (e.g. taxcalc)")
	version := fs.String("version", "", "Release version in X.Y.Z form; must be a release tag unless -local")
	local := fs.Bool("local", false, "Build from the current directory and install locally")
	dryrun := fs.Bool("dryrun", false, "Print the execution plan and stop")
	confPath := fs.String("config", "", "Path to optional YAML config file")
	var channels channelList
	fs.Var(&channels, "channel", "Additional distribution channel (repeatable, ordered)")
	fs.Parse(args)

	cfg := loadConfig(*confPath)
	orch := release.New(cfg, run.ExecRunner{})

	req := release.Request{
		Repo:     *repo,
		Pkg:      *pkg,
		Version:  *version,
		Local:    *local,
		DryRun:   *dryrun,
		Channels: channels,
	}
	if err := orch.Release(req); err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
}

func tagsCmd(args []string) {
	fs := flag.NewFlagSet("tags", flag.ExitOnError)
	repo := fs.String("repo", "", "Model repository name (e.g. Tax-Calculator)")
	confPath := fs.String("config", "", "Path to optional YAML config file")
	fs.Parse(args)

	if *repo == "" {
		fmt.Println("Fatal: -repo is required")
		os.Exit(1)
	}

	cfg := loadConfig(*confPath)
	owner, err := github.OwnerFromURL(cfg.GitHubURL)
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}

	tags, err := github.Tags(owner, *repo, cfg.GitHubToken)
	if err != nil {
		fmt.Printf("Fatal: could not list tags of %s/%s: %v\n", owner, *repo, err)
		os.Exit(1)
	}
	for _, tag := range github.SortByVersion(tags) {
		fmt.Println(tag)
	}
}

func purgeCmd(args []string) {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	confPath := fs.String("config", "", "Path to optional YAML config file")
	fs.Parse(args)

	cfg := loadConfig(*confPath)
	if err := (run.ExecRunner{}).Run(cfg.HomeDir, conda.Tool, conda.PurgeArgs()...); err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) release.Config {
	cfg, err := release.LoadConfig(path)
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
	cfg.Token = os.Getenv("CONDA_TOKEN")
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.SigningKey = os.Getenv("GPG_PRIVATE_KEY")
	return cfg
}
