package config

import (
	"os"
	"path/filepath"
	"sync"
)

// resolvedProjectDir holds the project directory resolved at CLI startup.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .ecoimpact directory.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. ECOIMPACT_PROJECT_DIR env var
//  3. the nearest ancestor of startDir that contains a .ecoimpact directory
//
// Returns an absolute path or "" if no project is found. Never creates anything.
func ResolveProjectDir(flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(envDir)
	}
	if startDir == "" {
		return ""
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, configDirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() && candidate != ConfigDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir builds a Config from defaults, the global config file,
// a shallow-merged project overlay (projectDir/config.yaml) and finally the
// environment. Problems with either file are logged and otherwise ignored.
func NewWithProjectDir(projectDir string) *Config {
	cfg := Default()

	if _, err := os.Stat(cfg.path); err == nil {
		if loadErr := cfg.Load(cfg.path); loadErr != nil {
			GetLogger().Warn().
				Str("component", "config").
				Err(loadErr).
				Msg("failed to load global config, using defaults")
		}
	}

	if projectDir != "" {
		overlayPath := filepath.Join(projectDir, configFileName)
		if _, err := os.Stat(overlayPath); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, overlayPath); mergeErr != nil {
				GetLogger().Warn().
					Str("component", "config").
					Str("operation", "merge_project_config").
					Err(mergeErr).
					Str("overlay_path", overlayPath).
					Msg("failed to merge project config, using global values")
			}
		}
	}

	cfg.ApplyEnv()
	return cfg
}

// toAbsProjectDir converts dir to an absolute path ending in .ecoimpact.
func toAbsProjectDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	if filepath.Base(abs) == configDirName {
		return abs
	}
	return filepath.Join(abs, configDirName)
}
