package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/viant/afs"

	"codemindmap/internal/ports"
)

// SettingsFileName is the JSON settings file inside the app-data root
const SettingsFileName = "settings.json"

// SettingsFile implements ports.SettingsStore as one JSON document:
//
//	{"<collection>": {"<property>": "<value>"}}
type SettingsFile struct {
	fs   afs.Service
	path string
	mu   sync.Mutex
}

// Ensure SettingsFile implements ports.SettingsStore
var _ ports.SettingsStore = (*SettingsFile)(nil)

// NewSettingsFile creates a settings store at <appDataRoot>/settings.json
func NewSettingsFile(appDataRoot string) *SettingsFile {
	return &SettingsFile{
		fs:   afs.New(),
		path: filepath.Join(appDataRoot, SettingsFileName),
	}
}

// Path returns the settings file path
func (s *SettingsFile) Path() string {
	return s.path
}

func (s *SettingsFile) load(ctx context.Context) (map[string]map[string]string, error) {
	doc := map[string]map[string]string{}
	data, err := readFile(ctx, s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return doc, nil
}

// Get retrieves a value by collection and property
func (s *SettingsFile) Get(ctx context.Context, collection, property string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := doc[collection][property]
	return v, ok, nil
}

// Set overwrites a value. A settings file that no longer parses is
// replaced.
func (s *SettingsFile) Set(ctx context.Context, collection, property, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		doc = map[string]map[string]string{}
	}
	if doc[collection] == nil {
		doc[collection] = map[string]string{}
	}
	doc[collection][property] = value

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	b = append(b, '\n')
	return writeAtomic(ctx, s.fs, s.path, b, 0o600)
}

// Close is a no-op; every call reads and writes the file fully
func (s *SettingsFile) Close() error {
	return nil
}
