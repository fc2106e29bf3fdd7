package cards

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is the card-definition catalogue: a read-only lookup from card id
// to its static definition. It is populated once at startup and then shared
// by every game.
type Registry struct {
	byID map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Definition)}
}

// Register adds a definition. Registering a duplicate id is an error.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("cannot register definition without id")
	}
	if _, exists := r.byID[def.ID]; exists {
		return fmt.Errorf("duplicate card id %s", def.ID)
	}
	r.byID[def.ID] = def
	return nil
}

// Lookup returns the definition for the card id.
func (r *Registry) Lookup(id string) (*Definition, bool) {
	def, ok := r.byID[id]
	return def, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns all registered card ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadReader parses one YAML set file (a list of cards) into the registry.
func (r *Registry) LoadReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read set file: %w", err)
	}

	var raw []yamlCard
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse set file: %w", err)
	}

	for _, yc := range raw {
		def, err := yc.toDefinition()
		if err != nil {
			return err
		}
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir loads every .yaml file under dir, in lexical order.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read set dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		if err := r.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS loads every .yaml file from an fs.FS, for embedded set data.
func (r *Registry) LoadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		f, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := r.LoadReader(f); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

func (r *Registry) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.LoadReader(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
