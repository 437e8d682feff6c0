// Package state saves and restores the parameter set as an XML document.
package state

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/mitchellh/go-homedir"
)

// ErrInvalidState is returned when a state document cannot be restored.
// The parameters are back at their defaults when it is returned.
var ErrInvalidState = errors.New("invalid state")

const (
	// RootElement names the document element.
	RootElement = "DistortionGo"
	// Version is the document version written by Save.
	Version = 1
	// PresetExt is appended to bare preset names.
	PresetExt = ".xml"
)

type document struct {
	XMLName xml.Name       `xml:"DistortionGo"`
	Version int            `xml:"version,attr"`
	Params  []paramElement `xml:"PARAM"`
}

type paramElement struct {
	ID    string  `xml:"id,attr"`
	Value float64 `xml:"value,attr"`
}

// Manager handles plugin state saving and loading
type Manager struct {
	registry *param.Registry
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{registry: registry}
}

// Save writes every parameter, keyed by identifier, in plain units.
func (m *Manager) Save(w io.Writer) error {
	doc := document{Version: Version}
	for _, p := range m.registry.All() {
		if p.Identifier == "" {
			continue
		}
		doc.Params = append(doc.Params, paramElement{ID: p.Identifier, Value: roundValue(p.GetPlainValue())})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write state header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// roundValue drops float noise from normalized round trips.
func roundValue(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Load restores parameters from a document written by Save. Every parameter
// is reset to its default first, so missing entries end up at their defaults
// and unknown entries are ignored. A document that cannot be parsed leaves
// all parameters at their defaults and returns ErrInvalidState.
func (m *Manager) Load(r io.Reader) error {
	m.registry.ResetAll()

	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if doc.Version > Version {
		return fmt.Errorf("%w: version %d is newer than supported version %d", ErrInvalidState, doc.Version, Version)
	}

	for _, el := range doc.Params {
		p, err := m.registry.Lookup(el.ID)
		if err != nil {
			continue
		}
		p.SetPlainValue(el.Value)
	}

	return nil
}

// SaveFile writes the state to path, creating parent directories.
func (m *Manager) SaveFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create preset directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile restores the state from path. A missing file is reported as is;
// an unreadable document resets to defaults and wraps ErrInvalidState.
func (m *Manager) LoadFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	if err := m.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// PresetDir returns the directory holding named presets, ~/.godistortion/presets.
func PresetDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".godistortion", "presets"), nil
}

// PresetPath resolves a preset reference. Bare names live in PresetDir;
// anything containing a path separator or starting with ~ is used as a path.
func PresetPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasPrefix(name, "~") || strings.Contains(name, "/") {
		return homedir.Expand(name)
	}
	dir, err := PresetDir()
	if err != nil {
		return "", err
	}
	if filepath.Ext(name) == "" {
		name += PresetExt
	}
	return filepath.Join(dir, name), nil
}

// ListPresets returns the preset names found in PresetDir.
func ListPresets() ([]string, error) {
	dir, err := PresetDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preset directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != PresetExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), PresetExt))
	}
	return names, nil
}
