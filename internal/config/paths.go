package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/localstash/localstash/internal/fsutil"
	"github.com/localstash/localstash/internal/messages"
)

// Paths holds resolved locations for lstash's user-level files.
type Paths struct {
	ConfigPath   string
	PackagesPath string
	HistoryPath  string
}

// DefaultPaths resolves the default file locations under the user's home
// directory. LSTASH_CONFIG_PATH overrides the config file location.
func DefaultPaths() (Paths, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Paths{}, fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	configPath := os.Getenv(messages.EnvConfigPath)
	if configPath == "" {
		configPath = filepath.Join(home, ".config", "lstash", "config.toml")
	}
	return Paths{
		ConfigPath:   configPath,
		PackagesPath: filepath.Join(home, ".packages"),
		HistoryPath:  filepath.Join(home, ".lstash", "usage.json"),
	}, nil
}

// ExpandPath expands a leading ~ in p and normalizes the result to an
// absolute lexical path.
func ExpandPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return fsutil.NormalizePath(expanded)
}
