package conda

import (
	"reflect"
	"testing"
)

func TestChannels(t *testing.T) {
	tests := []struct {
		name   string
		extras []string
		want   []string
	}{
		{
			name:   "no extras",
			extras: nil,
			want:   []string{"defaults", "pslmodels"},
		},
		{
			name:   "extras keep caller order",
			extras: []string{"conda-forge", "bioconda"},
			want:   []string{"conda-forge", "bioconda", "defaults", "pslmodels"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Channels(tt.extras, "pslmodels")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Channels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	got := BuildArgs("tok", "pslmodels", "pkgbld_output", []string{"defaults", "pslmodels"})
	want := []string{
		"build", "conda.recipe/",
		"--token", "tok",
		"--user", "pslmodels",
		"--output-folder", "pkgbld_output",
		"--override-channels",
		"--channel", "defaults",
		"--channel", "pslmodels",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs() = %v, want %v", got, want)
	}
}

func TestUploadConfigArgs(t *testing.T) {
	if got := UploadConfigArgs(true); got[len(got)-1] != "yes" {
		t.Errorf("expected yes, got %v", got)
	}
	if got := UploadConfigArgs(false); got[len(got)-1] != "no" {
		t.Errorf("expected no, got %v", got)
	}
}

func TestInstallArgs(t *testing.T) {
	got := InstallArgs("file:///tmp/wd/Tax-Calculator/pkgbld_output", "taxcalc", "1.0.1")
	want := []string{
		"install",
		"--channel", "file:///tmp/wd/Tax-Calculator/pkgbld_output",
		"taxcalc=1.0.1",
		"--yes",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InstallArgs() = %v, want %v", got, want)
	}
}

func TestUninstallAndPurgeArgs(t *testing.T) {
	if got := UninstallArgs("taxcalc"); !reflect.DeepEqual(got, []string{"uninstall", "taxcalc", "--yes"}) {
		t.Errorf("UninstallArgs() = %v", got)
	}
	if got := PurgeArgs(); !reflect.DeepEqual(got, []string{"build", "purge"}) {
		t.Errorf("PurgeArgs() = %v", got)
	}
}
