// ABOUTME: Standard filesystem paths for liveblock configuration
// ABOUTME: Resolves ~/.liveblock/ for global and .liveblock/ for project-local files

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".liveblock"
	projectDirName = ".liveblock"
	configFileName = "config.yaml"
)

// GlobalDir returns the user-global config directory (~/.liveblock/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory.
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}
