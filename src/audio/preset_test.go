package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jinjor/footsteps/src/footsteps"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "_list.json"), `{"items":[{"name":"hallway"},{"name":"garden"}]}`)
	writeFile(t, filepath.Join(dir, "hallway.json"), `{"shoe":"highheel","surface":"hollowwood","pace":100}`)
	writeFile(t, filepath.Join(dir, "garden.json"), `{"surface":"grass","automated":false}`)

	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	expectError(t, audio.update([]string{"preset", "hallway"}))
	names, err := audio.Presets()
	expectNoError(t, err)
	expectEqual(t, len(names), 0)

	audio.SetPresetDir(dir)
	names, err = audio.Presets()
	expectNoError(t, err)
	expectEqual(t, len(names), 2)
	expectEqual(t, names[1], "garden")

	expectNoError(t, audio.update([]string{"preset", "hallway"}))
	p := audio.state.params
	expectEqual(t, p.shoe, footsteps.HighHeel)
	expectEqual(t, p.surface, footsteps.HollowWood)
	expectNearlyEqual(t, p.pace, 100)

	expectNoError(t, audio.update([]string{"preset", "garden"}))
	expectEqual(t, p.shoe, footsteps.HighHeel)
	expectEqual(t, p.surface, footsteps.Grass)
	expectEqual(t, p.automated, false)

	expectError(t, audio.update([]string{"preset", "missing"}))
	expectError(t, audio.update([]string{"preset", "../hallway"}))
	expectError(t, audio.update([]string{"preset"}))
}
