package scanner

import (
	"sync"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/AtlasScout/AtlasScout/agent/go-service/detection"
)

// Resources is the read-only data a scan works from. A scan keeps the
// snapshot it started with even if Reload swaps it mid-way.
type Resources struct {
	Templates  []*detection.Template
	Classifier *activity.Classifier
	Catalog    *catalog.Catalog
}

func (r *Resources) maps() []catalog.MapEntry {
	if r == nil || r.Catalog == nil {
		return nil
	}
	return r.Catalog.Maps
}

func (r *Resources) settings() catalog.Settings {
	if r == nil || r.Catalog == nil {
		return catalog.Settings{}
	}
	return r.Catalog.Settings
}

// SettingsSource yields the user settings a scan works from: strategy,
// favourites and layout colours. It is read once per scan so all three come
// from the same snapshot.
type SettingsSource interface {
	Settings() catalog.Settings
}

// StaticSettings always returns the same settings.
type StaticSettings catalog.Settings

func (s StaticSettings) Settings() catalog.Settings { return catalog.Settings(s) }

// SettingsFile re-reads settings.json on every call so edits made while the
// service runs apply to the next scan. On a read error the last good settings
// are returned.
type SettingsFile struct {
	Path string

	mu   sync.Mutex
	last catalog.Settings
}

// NewSettingsFile returns a source for path that falls back to initial until
// the file has been read successfully.
func NewSettingsFile(path string, initial catalog.Settings) *SettingsFile {
	return &SettingsFile{Path: path, last: initial}
}

func (s *SettingsFile) Settings() catalog.Settings {
	settings, err := catalog.LoadSettings(s.Path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger().Warn().Err(err).Str("path", s.Path).Msg("failed to reload settings, keeping previous")
		return s.last
	}
	s.last = *settings
	return s.last
}
