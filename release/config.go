package release

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Config is the immutable configuration the orchestrator is constructed
// with. Every path, URL and identity the procedure touches lives here so
// tests can redirect them without shared state.
type Config struct {
	// GitHubURL is the source-hosting base URL repository names are
	// appended to.
	GitHubURL string
	// AnacondaUser is the publishing identity packages are uploaded under.
	AnacondaUser string
	// AnacondaChannel is the canonical publishing channel, by convention
	// the same name as the user.
	AnacondaChannel string
	// Token is an explicit authentication token. When empty, TokenFile is
	// passed to the build tool instead.
	Token string
	// TokenFile is the home-relative token file consulted when no explicit
	// token is set. Its existence is not verified here; the build tool
	// reports a missing token itself.
	TokenFile string
	// WorkingDir is the transient directory the source tree is staged in.
	WorkingDir string
	// BuildsDir is the build output directory, relative to the staged
	// repository root.
	BuildsDir string
	// HomeDir is where the procedure returns to during cleanup.
	HomeDir string
	// ManifestDir is where build manifests are stored. Unlike WorkingDir it
	// survives cleanup.
	ManifestDir string
	// LogFile is the rotating release log. Empty disables file logging.
	LogFile string
	// SigningKey is an optional ASCII-armored PGP private key used to
	// clearsign build manifests.
	SigningKey string
	// GitHubToken authenticates GitHub API calls (tag listing, pre-flight).
	GitHubToken string
}

// DefaultConfig returns the canonical configuration for publishing Policy
// Simulation Library model packages.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determine home directory: %w", err)
	}

	const user = "pslmodels"
	return Config{
		GitHubURL:       "https://github.com/PSLmodels",
		AnacondaUser:    user,
		AnacondaChannel: user,
		TokenFile:       filepath.Join(home, "."+user+"_anaconda_token"),
		WorkingDir:      filepath.Join(home, "temporary_pkgbld_working_dir"),
		BuildsDir:       "pkgbld_output",
		HomeDir:         home,
		ManifestDir:     filepath.Join(home, ".pkgbld", "manifests"),
		LogFile:         filepath.Join(home, ".pkgbld", "pkgbld.log"),
	}, nil
}

// LoadConfig returns the default configuration overridden by any fields set
// in the YAML file at path. An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}

	// Internal DTO for YAML deserialization
	type yamlConfig struct {
		GitHubURL       string `yaml:"github_url"`
		AnacondaUser    string `yaml:"anaconda_user"`
		AnacondaChannel string `yaml:"anaconda_channel"`
		TokenFile       string `yaml:"token_file"`
		WorkingDir      string `yaml:"working_dir"`
		BuildsDir       string `yaml:"builds_dir"`
		ManifestDir     string `yaml:"manifest_dir"`
		LogFile         string `yaml:"log_file"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	var dto yamlConfig
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if dto.GitHubURL != "" {
		cfg.GitHubURL = dto.GitHubURL
	}
	if dto.AnacondaUser != "" {
		cfg.AnacondaUser = dto.AnacondaUser
		cfg.AnacondaChannel = dto.AnacondaUser
		cfg.TokenFile = filepath.Join(cfg.HomeDir, "."+dto.AnacondaUser+"_anaconda_token")
	}
	if dto.AnacondaChannel != "" {
		cfg.AnacondaChannel = dto.AnacondaChannel
	}
	if dto.TokenFile != "" {
		cfg.TokenFile = dto.TokenFile
	}
	if dto.WorkingDir != "" {
		cfg.WorkingDir = dto.WorkingDir
	}
	if dto.BuildsDir != "" {
		cfg.BuildsDir = dto.BuildsDir
	}
	if dto.ManifestDir != "" {
		cfg.ManifestDir = dto.ManifestDir
	}
	if dto.LogFile != "" {
		cfg.LogFile = dto.LogFile
	}
	return cfg, nil
}

// TokenValue returns the token argument handed to the build tool: the
// explicit token when set, otherwise the token file path.
func (c Config) TokenValue() string {
	if c.Token != "" {
		return c.Token
	}
	return c.TokenFile
}
