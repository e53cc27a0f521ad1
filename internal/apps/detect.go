// Package apps discovers which supported applications are installed on the
// host and resolves their sync targets.
//
// Installation is inferred from the existence of the application's data
// directory, not of the config file itself: a freshly installed app whose
// MCP config has never been written is still a valid sync target.
package apps

import (
	"os"

	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// InstallStatus indicates the installation state of an application.
type InstallStatus string

const (
	// StatusInstalled indicates the application's data directory exists.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled indicates the application's data directory does not exist.
	StatusNotInstalled InstallStatus = "not_installed"
)

// Target is one application's sync target: where its config lives and which
// dialect it is written in. The set of targets is computed once at
// Synchronizer construction and is immutable for the rest of the run.
type Target struct {
	// Name is the application identifier (e.g. "Claude", "Cursor").
	Name string

	// Path is the absolute path of the application's config file.
	// The file may not exist yet.
	Path string

	// Writer is the dialect the application's config is written in.
	Writer format.Adapter
}

// DetectionResult contains information about a detected application.
type DetectionResult struct {
	// Name is the application identifier.
	Name string

	// ConfigPath is the path to the application's MCP config file.
	// Always set for valid apps, even if the file does not exist.
	ConfigPath string

	// ProbeDir is the directory whose existence marks the app installed.
	ProbeDir string

	// Dialect is the label of the app's preferred write dialect.
	Dialect string

	// Status indicates the installation state.
	Status InstallStatus
}

// Overrides maps application names to replacement config file paths.
// Used to honor per-app path overrides from mcpsync's own configuration.
type Overrides map[string]string

// DetectApp checks whether a specific application is installed.
// Returns nil if the app name is not recognized.
func DetectApp(name string, overrides Overrides) *DetectionResult {
	if !paths.ValidApp(name) {
		return nil
	}

	configPath := paths.ConfigPath(name)
	if p, ok := overrides[name]; ok && p != "" {
		configPath = p
	}

	probeDir := paths.ProbeDir(name)

	status := StatusNotInstalled
	if dirExists(probeDir) {
		status = StatusInstalled
	}

	return &DetectionResult{
		Name:       name,
		ConfigPath: configPath,
		ProbeDir:   probeDir,
		Dialect:    format.ForApp(name).Name(),
		Status:     status,
	}
}

// DetectAll returns detection results for all known applications in
// deterministic order.
func DetectAll(overrides Overrides) []*DetectionResult {
	names := paths.Apps()
	results := make([]*DetectionResult, 0, len(names))

	for _, name := range names {
		if result := DetectApp(name, overrides); result != nil {
			results = append(results, result)
		}
	}

	return results
}

// DetectInstalled returns only applications that are installed.
func DetectInstalled(overrides Overrides) []*DetectionResult {
	all := DetectAll(overrides)
	installed := make([]*DetectionResult, 0, len(all))

	for _, result := range all {
		if result.Status == StatusInstalled {
			installed = append(installed, result)
		}
	}

	return installed
}

// Targets converts detection results into sync targets.
func Targets(results []*DetectionResult) []Target {
	targets := make([]Target, 0, len(results))
	for _, r := range results {
		targets = append(targets, Target{
			Name:   r.Name,
			Path:   r.ConfigPath,
			Writer: format.ForApp(r.Name),
		})
	}
	return targets
}

// InstalledTargets is the common construction path: discover installed apps
// and return their sync targets.
func InstalledTargets(overrides Overrides) []Target {
	return Targets(DetectInstalled(overrides))
}

// dirExists returns true if the path exists and is a directory.
func dirExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}
