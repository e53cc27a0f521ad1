// Package paths resolves configuration file locations for mcpsync and for
// the applications it synchronizes.
//
// Application config files live in one of two kinds of base directories:
// dot-directories directly under the user's home (Cursor, Windsurf) or the
// platform config home (Claude Desktop, VSCode and its extensions). The
// latter is resolved through XDG, which maps to ~/Library/Application Support
// on macOS, ~/.config on Linux, and %LOCALAPPDATA% on Windows.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Application identifiers for the supported sync targets.
const (
	AppClaude          = "Claude"
	AppVSCode          = "VSCode"
	AppCursor          = "Cursor"
	AppWindsurf        = "Windsurf"
	AppRoocodeVSCode   = "Roocode-VSCode"
	AppRoocodeWindsurf = "Roocode-Windsurf"
)

// baseKind selects which base directory an app path is relative to.
type baseKind int

const (
	baseHome baseKind = iota
	baseConfigHome
)

// appLocation describes where an application keeps its config file and which
// directory's existence indicates the application is installed.
type appLocation struct {
	base      baseKind
	configRel []string
	probeRel  []string
}

// appLocations maps app names to their config file locations.
// The probe directory is the app's own data directory, not the config file's
// immediate parent, so a freshly installed app with no config yet still counts.
var appLocations = map[string]appLocation{
	AppCursor: {
		base:      baseHome,
		configRel: []string{".cursor", "mcp.json"},
		probeRel:  []string{".cursor"},
	},
	AppWindsurf: {
		base:      baseHome,
		configRel: []string{".codeium", "windsurf", "mcp_config.json"},
		probeRel:  []string{".codeium", "windsurf"},
	},
	AppClaude: {
		base:      baseConfigHome,
		configRel: []string{"Claude", "claude_desktop_config.json"},
		probeRel:  []string{"Claude"},
	},
	AppVSCode: {
		base:      baseConfigHome,
		configRel: []string{"Code", "User", "settings.json"},
		probeRel:  []string{"Code"},
	},
	AppRoocodeVSCode: {
		base:      baseConfigHome,
		configRel: []string{"Code", "User", "globalStorage", "rooveterinaryinc.roo-cline", "settings", "cline_mcp_settings.json"},
		probeRel:  []string{"Code"},
	},
	AppRoocodeWindsurf: {
		base:      baseConfigHome,
		configRel: []string{"Windsurf - Next", "User", "globalStorage", "rooveterinaryinc.roo-cline", "settings", "mcp_settings.json"},
		probeRel:  []string{"Windsurf - Next"},
	},
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// AppName is used for mcpsync's own config and data directories.
const AppName = "mcpsync"

// Apps returns all supported application identifiers in deterministic order.
func Apps() []string {
	return []string{
		AppCursor,
		AppWindsurf,
		AppRoocodeVSCode,
		AppRoocodeWindsurf,
		AppClaude,
		AppVSCode,
	}
}

// ValidApp returns true if the app name is recognized.
func ValidApp(app string) bool {
	_, ok := appLocations[app]
	return ok
}

// ConfigPath returns the config file path for an application.
// Returns an empty string for unknown apps or when the base directory
// cannot be resolved.
func ConfigPath(app string) string {
	loc, ok := appLocations[app]
	if !ok {
		return ""
	}
	base := resolveBase(loc.base)
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, loc.configRel...)...)
}

// ProbeDir returns the directory whose existence marks the app as installed.
// Returns an empty string for unknown apps.
func ProbeDir(app string) string {
	loc, ok := appLocations[app]
	if !ok {
		return ""
	}
	base := resolveBase(loc.base)
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, loc.probeRel...)...)
}

func resolveBase(kind baseKind) string {
	switch kind {
	case baseConfigHome:
		return ConfigHome()
	default:
		return Home()
	}
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error; use ResolveHome for error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// OwnConfigDir returns mcpsync's own configuration directory:
// <ConfigHome>/mcpsync/
func OwnConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the root directory for target file backups:
// <DataHome>/mcpsync/backups/
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}
