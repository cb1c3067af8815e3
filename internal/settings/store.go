// Package settings provides the key/value settings store backing the
// launcher's configuration pages.
//
// The store is string-keyed and string-valued. Every known key has a
// registered default; a missing key reads as its default through
// GetOrDefault and as the empty string through Get. Writing the empty
// string is how a field expresses "reset to default".
//
// Persistence is a single INI file:
//   - Windows: %USERPROFILE%\.config\ember\ember.cfg
//   - Unix: ~/.config/ember/ember.cfg
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/ini.v1"

	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/events"
)

const iniSection = "launcher"

// Store is the launcher settings store. Safe for use from multiple
// goroutines; the GUI and the meta property downloader share one instance.
type Store struct {
	path     string
	bus      *events.EventBus
	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", constants.ConfigDirName)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", constants.ConfigDirName)
	}

	return filepath.Join(configDir, constants.SettingsFileName), nil
}

// NewStore creates a store bound to the given file path. The event bus may
// be nil; writes are then not announced.
func NewStore(path string, bus *events.EventBus) *Store {
	return &Store{
		path:   path,
		bus:    bus,
		values: make(map[string]string),
		defaults: map[string]string{
			KeyPastebinType:         DefaultPasteService,
			KeyMetaURLOverride:      constants.DefaultMetaURL,
			KeyResourceURLOverride:  constants.DefaultResourceBase,
			KeyLibrariesURLOverride: constants.DefaultLibraryBase,
			KeyUserAgentOverride:    constants.DefaultUserAgent(),
			KeyProxyMode:            "no-proxy",
		},
	}
}

// DefaultPasteService is the paste service selected when nothing is stored
// or the stored value is unrecognized.
const DefaultPasteService = "mclogs"

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file is not an error; the store
// then holds defaults only.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}

	iniFile, err := ini.Load(s.path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	section := iniFile.Section(iniSection)
	for _, key := range KnownKeys {
		if section.HasKey(key) {
			s.values[key] = section.Key(key).String()
		}
	}

	return nil
}

// Get returns the stored value for key, or the empty string when unset.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// GetOrDefault returns the stored value for key, falling back to the
// registered default when the stored value is empty. This is the use-time
// resolution rule: an empty override means "use the build default".
func (s *Store) GetOrDefault(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v := s.values[key]; v != "" {
		return v
	}
	return s.defaults[key]
}

// Default returns the registered default for key ("" when none).
func (s *Store) Default(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults[key]
}

// Set writes a value. The write is in-memory until Save.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.PublishSettingChanged(key, value)
	}
}

// Save persists the store to disk. Parent directories are created as
// needed; the write is atomic (tmp file + rename). Tokens live in this
// file, so permissions are restricted to the owning user.
func (s *Store) Save() error {
	s.mu.RLock()
	path := s.path
	snapshot := make(map[string]string, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()
	section, err := iniFile.NewSection(iniSection)
	if err != nil {
		return fmt.Errorf("failed to create settings section: %w", err)
	}
	for _, key := range KnownKeys {
		if v, ok := snapshot[key]; ok {
			section.Key(key).SetValue(v)
		}
	}

	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set settings permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(&events.SettingsSavedEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventSettingsSaved, Time: time.Now()},
			Path:      path,
		})
	}

	return nil
}
