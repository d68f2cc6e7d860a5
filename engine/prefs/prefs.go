// Package prefs persists the viewer's small client-side preferences: the last
// snap view and which overlays are shown.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/oxy-toolpath/engine/framer"
)

// Visibility holds the overlay toggles.
type Visibility struct {
	Path     bool `toml:"path"`
	Tool     bool `toml:"tool"`
	Box      bool `toml:"bbox"`
	Axes     bool `toml:"axes"`
	Envelope bool `toml:"envelope"`
}

// Prefs is the persisted preference document.
type Prefs struct {
	View framer.Direction
	Show Visibility
}

// document is the on-disk form. The view is kept as its label so unknown labels
// surface as framer.ErrUnknownDirection.
type document struct {
	View string     `toml:"view"`
	Show Visibility `toml:"show"`
}

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{
		View: framer.Angled,
		Show: Visibility{Path: true, Tool: true, Box: true, Axes: true},
	}
}

// Store reads and writes preferences. Every setter writes through to the file.
type Store interface {
	// Prefs returns the current preferences.
	Prefs() Prefs

	// SetView records the last snap view.
	//
	// Parameters:
	//   - d: the snap direction
	//
	// Returns:
	//   - error: if the file could not be written
	SetView(d framer.Direction) error

	// SetVisibility records the overlay toggles.
	//
	// Parameters:
	//   - v: the toggles
	//
	// Returns:
	//   - error: if the file could not be written
	SetVisibility(v Visibility) error

	// Filename returns the backing file, or "" for a memory-only store.
	Filename() string
}

type store struct {
	mu       *sync.Mutex
	filename string
	prefs    Prefs
}

var _ Store = &store{}

// Open loads the preferences in filename. A missing file yields the defaults and
// is created on the first write. An empty filename gives a store that never touches disk.
//
// Parameters:
//   - filename: path of the TOML preference file
//
// Returns:
//   - Store: the opened store
//   - error: if an existing file could not be read or decoded
func Open(filename string) (Store, error) {
	s := &store{
		mu:       &sync.Mutex{},
		filename: filename,
		prefs:    Default(),
	}
	if filename == "" {
		return s, nil
	}

	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: open %s: %w", filename, err)
	}
	defer f.Close()

	// Keys missing from the file keep their defaults.
	doc := document{View: s.prefs.View.String(), Show: s.prefs.Show}
	if err := toml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("prefs: decode %s: %w", filename, err)
	}
	view, err := framer.ParseDirection(doc.View)
	if err != nil {
		return nil, fmt.Errorf("prefs: %s: %w", filename, err)
	}
	s.prefs = Prefs{View: view, Show: doc.Show}
	return s, nil
}

func (s *store) Prefs() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *store) SetView(d framer.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.View = d
	return s.save()
}

func (s *store) SetVisibility(v Visibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Show = v
	return s.save()
}

func (s *store) Filename() string {
	return s.filename
}

// save writes the preferences through a temporary file and renames it into place.
// Caller must hold the mutex.
func (s *store) save() error {
	if s.filename == "" {
		return nil
	}

	b, err := toml.Marshal(document{View: s.prefs.View.String(), Show: s.prefs.Show})
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}

	dir := filepath.Dir(s.filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("prefs: write %s: %w", s.filename, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("prefs: write %s: %w", s.filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prefs: write %s: %w", s.filename, err)
	}
	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fmt.Errorf("prefs: write %s: %w", s.filename, err)
	}
	return nil
}
