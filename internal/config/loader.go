package config

import (
	"os"
	"path/filepath"
)

var defaultConfigNames = []string{"config.yaml", "config.json"}

// GetConfigPath picks the configuration file to load, first match wins:
// the -config flag, NOTEGRAB_CONFIG_PATH, then config.yaml / config.json in the
// working directory and in the executable's directory.
// It returns "" when nothing exists, meaning built-in defaults.
func GetConfigPath(flagPath string) string {
	for _, explicit := range []string{flagPath, os.Getenv(ConfigPathEnv)} {
		if explicit != "" && fileExists(explicit) {
			return explicit
		}
	}

	for _, dir := range searchDirs() {
		for _, name := range defaultConfigNames {
			if candidate := filepath.Join(dir, name); fileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func searchDirs() []string {
	var dirs []string
	cwd, err := os.Getwd()
	if err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if exeDir := filepath.Dir(exe); exeDir != cwd {
			dirs = append(dirs, exeDir)
		}
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
