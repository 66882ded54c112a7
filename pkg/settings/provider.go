package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Provider provides the current settings. Consumers only read them.
type Provider interface {
	Settings() Settings
}

var (
	_ Provider = Static{}
	_ Provider = (*FileProvider)(nil)
)

// Static is a Provider with fixed settings.
type Static struct {
	settings Settings
}

// NewStatic creates a new Static provider.
func NewStatic(s Settings) Static {
	return Static{settings: s}
}

// Settings implements the Provider interface.
func (s Static) Settings() Settings {
	return s.settings
}

// APIKey implements the tmdb.Credentials interface.
func (s Static) APIKey() string {
	return s.settings.APIKey
}

// Load reads settings from a file. Files with a ".toml" extension are parsed as TOML, everything else as JSON.
// A missing file leads to the default settings.
func Load(fs afero.Fs, path string) (Settings, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return Settings{}, fmt.Errorf("Couldn't read settings file: %v", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// FileProvider is a Provider that loads settings from a file and can reload them.
type FileProvider struct {
	fs             afero.Fs
	path           string
	apiKeyOverride string
	current        Settings
	lock           *sync.RWMutex
	logger         *zap.Logger
}

// NewFileProvider creates a new FileProvider and loads the settings once.
// If apiKeyOverride isn't empty, it replaces the stored API key.
func NewFileProvider(fs afero.Fs, path, apiKeyOverride string, logger *zap.Logger) (*FileProvider, error) {
	p := &FileProvider{
		fs:             fs,
		path:           path,
		apiKeyOverride: apiKeyOverride,
		lock:           &sync.RWMutex{},
		logger:         logger,
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Settings implements the Provider interface.
func (p *FileProvider) Settings() Settings {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.current
}

// APIKey implements the tmdb.Credentials interface.
func (p *FileProvider) APIKey() string {
	return p.Settings().APIKey
}

// Reload loads the settings file again. On error the previous settings stay in place.
func (p *FileProvider) Reload() error {
	s, err := Load(p.fs, p.path)
	if err != nil {
		return err
	}
	if p.apiKeyOverride != "" {
		s.APIKey = p.apiKeyOverride
	}
	p.lock.Lock()
	p.current = s
	p.lock.Unlock()
	p.logger.Info("Loaded settings", zap.String("path", p.path), zap.Bool("apiKeySet", s.APIKey != ""))
	return nil
}
