package cli

import (
	"os"
	"path/filepath"
)

// Paths resolves the on-disk layout rooted at ~/.portal.
type Paths struct {
	HomeDir string
}

// NewPaths resolves the current user's home directory.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir is ~/.portal.
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile is ~/.portal/config.yaml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// DataDir is ~/.portal/data, where the badger database lives.
func (p *Paths) DataDir() string {
	return filepath.Join(p.BaseDir(), "data")
}

// DataPath joins name onto DataDir.
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// EnsureBaseDir creates BaseDir when missing.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureDataDir creates DataDir when missing.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0755)
}
