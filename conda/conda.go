// Package conda composes argument vectors for the conda and conda-build
// command line tools. It only builds argv slices; execution is left to the
// caller's run.Runner.
package conda

// Tool is the executable name every composed argv is run with.
const Tool = "conda"

// RecipeDir is the recipe directory conda build consumes, relative to the
// repository root. Every repository this tool targets carries its recipe
// there.
const RecipeDir = "conda.recipe"

// DefaultsChannel is the fallback channel appended before the publishing
// channel in every composed channel list.
const DefaultsChannel = "defaults"

// Channels composes the channel order used for building and installing:
// the caller-supplied extras first, in their given order, then defaults,
// then the publishing channel.
func Channels(extras []string, publish string) []string {
	channels := make([]string, 0, len(extras)+2)
	channels = append(channels, extras...)
	return append(channels, DefaultsChannel, publish)
}

// BuildArgs composes the single conda-build invocation that builds the
// recipe for every platform and Python version the recipe declares, and
// uploads the results when anaconda_upload is enabled.
func BuildArgs(token, user, outputDir string, channels []string) []string {
	args := []string{
		"build", RecipeDir + "/",
		"--token", token,
		"--user", user,
		"--output-folder", outputDir,
		"--override-channels",
	}
	for _, c := range channels {
		args = append(args, "--channel", c)
	}
	return args
}

// UploadConfigArgs composes the conda config call that switches automatic
// upload of built packages on or off.
func UploadConfigArgs(enabled bool) []string {
	value := "no"
	if enabled {
		value = "yes"
	}
	return []string{"config", "--set", "anaconda_upload", value}
}

// UninstallArgs composes the best-effort removal of a previously installed
// package.
func UninstallArgs(pkg string) []string {
	return []string{"uninstall", pkg, "--yes"}
}

// InstallArgs composes the install of a freshly built package from a local
// channel, pinned to an exact version.
func InstallArgs(channel, pkg, version string) []string {
	return []string{"install", "--channel", channel, pkg + "=" + version, "--yes"}
}

// PurgeArgs composes the conda-build cache purge.
func PurgeArgs() []string {
	return []string{"build", "purge"}
}
