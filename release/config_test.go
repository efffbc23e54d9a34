package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}

	if cfg.GitHubURL != "https://github.com/PSLmodels" {
		t.Errorf("GitHubURL = %q", cfg.GitHubURL)
	}
	if cfg.AnacondaUser != "pslmodels" || cfg.AnacondaChannel != "pslmodels" {
		t.Errorf("identity = %s/%s", cfg.AnacondaUser, cfg.AnacondaChannel)
	}
	if filepath.Base(cfg.TokenFile) != ".pslmodels_anaconda_token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if filepath.Base(cfg.WorkingDir) != "temporary_pkgbld_working_dir" {
		t.Errorf("WorkingDir = %q", cfg.WorkingDir)
	}
	if cfg.BuildsDir != "pkgbld_output" {
		t.Errorf("BuildsDir = %q", cfg.BuildsDir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgbld.yaml")
	content := strings.Join([]string{
		"github_url: https://github.com/OtherOrg",
		"anaconda_user: otherorg",
		"working_dir: /tmp/other_working_dir",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHubURL != "https://github.com/OtherOrg" {
		t.Errorf("GitHubURL = %q", cfg.GitHubURL)
	}
	// channel and token file follow the user unless set explicitly
	if cfg.AnacondaChannel != "otherorg" {
		t.Errorf("AnacondaChannel = %q", cfg.AnacondaChannel)
	}
	if filepath.Base(cfg.TokenFile) != ".otherorg_anaconda_token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if cfg.WorkingDir != "/tmp/other_working_dir" {
		t.Errorf("WorkingDir = %q", cfg.WorkingDir)
	}
	// untouched fields keep their defaults
	if cfg.BuildsDir != "pkgbld_output" {
		t.Errorf("BuildsDir = %q", cfg.BuildsDir)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AnacondaUser != "pslmodels" {
		t.Errorf("expected defaults, got user %q", cfg.AnacondaUser)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestTokenValue(t *testing.T) {
	cfg := Config{Token: "", TokenFile: "/home/u/.pslmodels_anaconda_token"}
	if got := cfg.TokenValue(); got != "/home/u/.pslmodels_anaconda_token" {
		t.Errorf("TokenValue() = %q", got)
	}
	cfg.Token = "secret"
	if got := cfg.TokenValue(); got != "secret" {
		t.Errorf("TokenValue() = %q", got)
	}
}
