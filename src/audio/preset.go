package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ----- Presets ----- //

// A preset directory holds one params JSON per preset (<name>.json) and an
// index (_list.json) naming them.
type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetManager struct {
	dir   string
	names []string
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func (pm *presetManager) getList() ([]string, error) {
	if pm.names == nil {
		if err := pm.loadList(); err != nil {
			return nil, err
		}
	}
	return pm.names, nil
}

func (pm *presetManager) applyToParams(name string, target *params) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid preset name %q", name)
	}
	bytes, err := os.ReadFile(filepath.Join(pm.dir, name+".json"))
	if err != nil {
		return fmt.Errorf("failed to read preset: %w", err)
	}
	return target.applyJSON(bytes)
}

func (pm *presetManager) loadList() error {
	bytes, err := os.ReadFile(filepath.Join(pm.dir, "_list.json"))
	if err != nil {
		return fmt.Errorf("failed to read preset list: %w", err)
	}
	var list presetMetaListJSON
	if err := json.Unmarshal(bytes, &list); err != nil {
		return fmt.Errorf("failed to parse preset list: %w", err)
	}
	pm.names = make([]string, len(list.Items))
	for i, item := range list.Items {
		pm.names[i] = item.Name
	}
	return nil
}
