package profiles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the name of the dbt profiles file.
const FileName = "profiles.yml"

// EnvNames holds the names of the environment variables consulted by
// [LocatorConfigFromEnv].
type EnvNames struct {
	ProfilesDir string
	ProjectDir  string
}

// DefaultEnvNames are the environment variables dbt itself reads.
var DefaultEnvNames = EnvNames{
	ProfilesDir: "DBT_PROFILES_DIR",
	ProjectDir:  "DBT_PROJECT_DIR",
}

// LocatorConfig holds the signals used to locate profiles.yml.
// Empty fields are not consulted.
type LocatorConfig struct {
	// ProfilesDir is an explicit profiles directory override.
	ProfilesDir string
	// ProjectDir is the dbt project directory.
	ProjectDir string
	// HomeDir is the user's home directory, profiles.yml is expected in
	// its .dbt subdirectory.
	HomeDir string
}

// LocatorConfigFromEnv builds a [LocatorConfig] from environment variables.
// The home directory comes from [os.UserHomeDir].
func LocatorConfigFromEnv(lookup func(string) (string, bool), names EnvNames) LocatorConfig {
	cfg := LocatorConfig{}

	if names.ProfilesDir != "" {
		if v, ok := lookup(names.ProfilesDir); ok {
			cfg.ProfilesDir = v
		}
	}

	if names.ProjectDir != "" {
		if v, ok := lookup(names.ProjectDir); ok {
			cfg.ProjectDir = v
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("could not determine home directory", slog.Any("error", err))
	} else {
		cfg.HomeDir = home
	}

	return cfg
}

// Locator resolves the path of profiles.yml.
type Locator struct {
	cfg LocatorConfig
}

// NewLocator creates a new [Locator].
func NewLocator(cfg LocatorConfig) *Locator {
	return &Locator{cfg: cfg}
}

// Candidates returns the candidate paths in precedence order:
// the profiles directory override, the project directory, and finally
// ~/.dbt/profiles.yml.
func (l *Locator) Candidates() []string {
	var paths []string

	if l.cfg.ProfilesDir != "" {
		paths = append(paths, filepath.Join(l.cfg.ProfilesDir, FileName))
	}
	if l.cfg.ProjectDir != "" {
		paths = append(paths, filepath.Join(l.cfg.ProjectDir, FileName))
	}
	if l.cfg.HomeDir != "" {
		paths = append(paths, filepath.Join(l.cfg.HomeDir, ".dbt", FileName))
	}

	return paths
}

// Locate returns the absolute path of the first candidate that exists as a
// regular file. It returns an [*Error] of kind [KindProfileNotFound] listing
// every checked path otherwise.
func (l *Locator) Locate() (string, error) {
	candidates := l.Candidates()

	checked := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			absPath = candidate
		}

		checked = append(checked, absPath)

		ok, err := isRegularFile(absPath)
		if err != nil {
			slog.Debug("skip profiles candidate",
				slog.String("path", absPath),
				slog.Any("error", err),
			)

			continue
		}

		if ok {
			return absPath, nil
		}
	}

	return "", newNotFoundError(checked)
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("%s: not a regular file", path)
	}

	return true, nil
}
