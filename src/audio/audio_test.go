package audio

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/jinjor/footsteps/src/footsteps"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func expectError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected an error")
	}
}

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func newTestAudio() *Audio {
	return newAudio(48000, rand.New(rand.NewSource(1)), WindowHann)
}

func TestRead(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	expectNoError(t, audio.update([]string{"set", "pace", "600"}))
	out := make([]byte, bufferSizeInBytes)
	nonZero := false
	for n := 0; n < 10; n++ {
		read, err := audio.Read(out)
		expectNoError(t, err)
		expectEqual(t, read, len(out))
		for i := 0; i < len(out); i += bytesPerSample {
			left := int16(out[i]) | int16(out[i+1])<<8
			right := int16(out[i+2]) | int16(out[i+3])<<8
			expectEqual(t, left, right)
			if left > 16384 || left < -16384 {
				t.Fatalf("sample %d beyond generator range: %d", i, left)
			}
			nonZero = nonZero || left != 0
		}
	}
	expectEqual(t, nonZero, true)
	expectEqual(t, audio.state.pos, int64(10*samplesPerCycle))
	if audio.GetLevel() <= 0 {
		t.Errorf("expected some level")
	}
	spectrum := audio.GetFFT()
	expectEqual(t, len(spectrum), fftSize/2)
}

func TestReadOddSizes(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	out := make([]byte, 3000*bytesPerSample)
	read, err := audio.Read(out)
	expectNoError(t, err)
	expectEqual(t, read, len(out))
	expectEqual(t, audio.state.pos, int64(3000))
	read, err = audio.Read(make([]byte, 7))
	expectNoError(t, err)
	expectEqual(t, read, 4)
}

func TestReadAfterCancel(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	audio.ctx = ctx
	_, err := audio.Read(make([]byte, bufferSizeInBytes))
	expectEqual(t, err, io.EOF)
}

func TestUpdate(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	expectNoError(t, audio.update([]string{"set", "shoe", "oxford"}))
	expectNoError(t, audio.update([]string{"set", "surface", "3"}))
	expectNoError(t, audio.update([]string{"set", "terrain", "stairs"}))
	expectNoError(t, audio.update([]string{"set", "pace", "120"}))
	expectNoError(t, audio.update([]string{"set", "firmness", "0.8"}))
	expectNoError(t, audio.update([]string{"set", "steadiness", "0.2"}))
	expectNoError(t, audio.update([]string{"set", "automated", "false"}))
	expectNoError(t, audio.update([]string{"adjust", "pace", "-30"}))
	expectNoError(t, audio.update([]string{"adjust", "firmness", "0.5"}))
	expectNoError(t, audio.update([]string{"step"}))

	p := audio.state.params
	expectEqual(t, p.shoe, footsteps.Oxford)
	expectEqual(t, p.surface, footsteps.Grass)
	expectEqual(t, p.terrain, footsteps.Stairs)
	expectNearlyEqual(t, p.pace, 90)
	expectNearlyEqual(t, p.firmness, 1)
	expectNearlyEqual(t, p.steadiness, 0.2)
	expectEqual(t, p.automated, false)

	g := audio.state.generator
	expectEqual(t, g.ShoeType(), footsteps.Oxford)
	expectEqual(t, g.Automated(), false)
	expectNearlyEqual(t, g.Pace(), 90)

	expectError(t, audio.update([]string{}))
	expectError(t, audio.update([]string{"jump"}))
	expectError(t, audio.update([]string{"set", "pace"}))
	expectError(t, audio.update([]string{"set", "pace", "fast"}))
	expectError(t, audio.update([]string{"set", "shoe", "slipper"}))
	expectError(t, audio.update([]string{"set", "color", "red"}))
	expectError(t, audio.update([]string{"adjust", "shoe", "1"}))
	expectError(t, audio.update([]string{"load", "{"}))
}

func TestJSON(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()

	var j struct {
		Params     paramsJSON `json:"params"`
		SampleRate int        `json:"sampleRate"`
	}
	expectNoError(t, json.Unmarshal(audio.ToJSON(), &j))
	expectEqual(t, j.SampleRate, 48000)
	expectEqual(t, j.Params.Shoe, "trainer")
	expectNearlyEqual(t, j.Params.Pace, 60)
	expectNearlyEqual(t, j.Params.Steadiness, 0.5)
	expectEqual(t, j.Params.Automated, true)

	expectNoError(t, audio.update([]string{"load", `{"params":{"shoe":"workboot","surface":"metal","pace":140}}`}))
	p := audio.state.params
	expectEqual(t, p.shoe, footsteps.WorkBoot)
	expectEqual(t, p.surface, footsteps.Metal)
	expectEqual(t, p.terrain, footsteps.Flat)
	expectNearlyEqual(t, p.pace, 140)
	expectNearlyEqual(t, p.steadiness, 0.5)

	expectError(t, audio.ApplyJSON([]byte(`{"params":{"terrain":"hill"}}`)))
	expectEqual(t, p.terrain, footsteps.Flat)
	expectNoError(t, audio.ApplyJSON([]byte(`{}`)))
	expectEqual(t, p.shoe, footsteps.WorkBoot)
}

func TestMidiControl(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	audio.AddMidiEvent([]byte{0xB0, ccPace, 127})
	audio.AddMidiEvent([]byte{0xB0, ccFirmness, 0})
	audio.AddMidiEvent([]byte{0xB0, ccShoe, 127})
	audio.AddMidiEvent([]byte{0xB0, ccSurface, 0})
	audio.AddMidiEvent([]byte{0xB0, ccTerrain, 100})
	audio.AddMidiEvent([]byte{0xB0, ccAutomated, 0})
	audio.AddMidiEvent([]byte{0x90, 60, 100})
	audio.AddMidiEvent([]byte{0x90})

	p := audio.state.params
	expectNearlyEqual(t, p.pace, 300)
	expectNearlyEqual(t, p.firmness, 0)
	expectEqual(t, p.shoe, footsteps.WorkBoot)
	expectEqual(t, p.surface, footsteps.Wood)
	expectEqual(t, p.terrain, footsteps.Stairs)
	expectEqual(t, p.automated, false)
	expectEqual(t, audio.state.generator.Automated(), false)

	audio.AddMidiEvent([]byte{0xB0, ccSteadiness, 64})
	expectNearlyEqual(t, p.steadiness, 64.0/127)
}

func TestKeyCommand(t *testing.T) {
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	for _, key := range []byte(" am1234fuzxcvbn+=-[]<>,.") {
		command, ok := keyCommand(key)
		expectEqual(t, ok, true)
		expectNoError(t, audio.update(command))
	}
	_, ok := keyCommand('!')
	expectEqual(t, ok, false)
	command, _ := keyCommand('b')
	expectEqual(t, command[2], "4")
	command, _ = keyCommand('3')
	expectEqual(t, command[2], "2")
}

func TestBenchmark(t *testing.T) {
	times := 200
	audio := newTestAudio()
	defer func() { expectNoError(t, audio.Close()) }()
	expectNoError(t, audio.update([]string{"set", "surface", "concrete"}))
	expectNoError(t, audio.update([]string{"set", "pace", "300"}))
	out := make([]byte, bufferSizeInBytes)
	allocs := testing.AllocsPerRun(times, func() {
		audio.Read(out)
	})
	expectEqual(t, allocs, 0.0)
}
