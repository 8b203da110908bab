// Package audio plays a footstep generator through the sound device and
// controls it with text commands, MIDI and the keyboard.
package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/footsteps/src/dsp"
	"github.com/jinjor/footsteps/src/footsteps"
)

const (
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
	minPace         = 1.0
	maxPace         = 1000.0
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096

// ----- Utility ----- //

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- State ----- //

type state struct {
	sync.Mutex
	params    *params
	generator *footsteps.Generator
	rms       *dsp.RMS
	pos       int64
	out       []float64 // length: fftSize
}

func newState(sampleRate int, src dsp.Source) *state {
	s := &state{
		params:    newParams(),
		generator: footsteps.NewGenerator(src),
		rms:       dsp.NewRMS(dsp.DefaultRMSWindow),
		out:       make([]float64, fftSize),
	}
	s.params.applyTo(s.generator)
	s.generator.PrepareModel(sampleRate)
	return s
}

// render produces n samples into the ring buffer. The generator runs in
// blocks that never cross the end of the ring.
func (s *state) render(n int) {
	s.params.applyTo(s.generator)
	for n > 0 {
		offset := int(s.pos % fftSize)
		size := n
		if offset+size > fftSize {
			size = fftSize - offset
		}
		out := s.out[offset : offset+size]
		s.generator.ExecuteModel(out)
		for _, v := range out {
			s.rms.ProcessSample(v)
		}
		s.pos += int64(size)
		n -= size
	}
}

// ----- Audio ----- //

// Audio ...
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	state      *state
	presets    *presetManager
	window     Window
	fft        *FFT
	fftResult  []float64 // length: fftSize
}

var _ io.Reader = (*Audio)(nil)

type audioJSON struct {
	Params     json.RawMessage `json:"params"`
	SampleRate int             `json:"sampleRate"`
}

// NewAudio opens the sound device at sampleRate and starts the command loop.
func NewAudio(sampleRate int, window Window) (*Audio, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	audio := newAudio(sampleRate, dsp.NewSource(), window)
	audio.otoContext = otoContext
	go processCommands(audio, audio.CommandCh)
	return audio, nil
}

// newAudio builds everything but the device.
func newAudio(sampleRate int, src dsp.Source, window Window) *Audio {
	return &Audio{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		state:     newState(sampleRate, src),
		window:    window,
		fft:       NewFFT(fftSize),
		fftResult: make([]float64, fftSize),
	}
}

// ApplyJSON ...
func (a *Audio) ApplyJSON(data []byte) error {
	a.state.Lock()
	defer a.state.Unlock()
	var audioJSON audioJSON
	if err := json.Unmarshal(data, &audioJSON); err != nil {
		return fmt.Errorf("failed to apply JSON to Audio: %w", err)
	}
	if audioJSON.Params == nil {
		return nil
	}
	return a.state.params.applyJSON(audioJSON.Params)
}

// ToJSON ...
func (a *Audio) ToJSON() []byte {
	a.state.Lock()
	defer a.state.Unlock()
	bytes, err := json.Marshal(&audioJSON{
		Params:     a.state.params.toJSON(),
		SampleRate: a.state.generator.SampleRate(),
	})
	if err != nil {
		panic(err)
	}
	return bytes
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		a.state.Lock()
		defer a.state.Unlock()
		bufSamples := len(buf) / bytesPerSample
		for done := 0; done < bufSamples; {
			n := bufSamples - done
			if n > fftSize {
				n = fftSize
			}
			offset := int(a.state.pos % fftSize)
			a.state.render(n)
			chunk := buf[done*bytesPerSample : (done+n)*bytesPerSample]
			writeBuffer(a.state.out, offset, chunk, 0)
			writeBuffer(a.state.out, offset, chunk, 1)
			done += n
		}
		return bufSamples * bytesPerSample, nil
	}
}

// writeBuffer reads out as a ring starting at outOffset.
func writeBuffer(out []float64, outOffset int, buf []byte, ch int) {
	sampleLength := len(buf) / bytesPerSample
	for i := 0; i < sampleLength; i++ {
		value := dsp.Clamp(out[(outOffset+i)%len(out)], -1, 1)
		const max = 32767
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		if err := audio.update(command); err != nil {
			log.Printf("[WARN] %v\n", err)
		}
	}
	log.Println("processCommands() ended.")
}

func (a *Audio) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		a.state.Lock()
		defer a.state.Unlock()
		return a.state.params.set(command[0], command[1])
	case "adjust":
		command = command[1:]
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		delta, err := strconv.ParseFloat(command[1], 64)
		if err != nil {
			return fmt.Errorf("invalid delta: %w", err)
		}
		a.state.Lock()
		defer a.state.Unlock()
		return a.state.params.adjust(command[0], delta)
	case "step":
		a.Step()
		return nil
	case "load":
		if len(command) != 2 {
			return fmt.Errorf("load takes one JSON argument")
		}
		return a.ApplyJSON([]byte(command[1]))
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("preset takes one name")
		}
		return a.LoadPreset(command[1])
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
}

// SetPresetDir enables the preset command, reading presets from dir.
func (a *Audio) SetPresetDir(dir string) {
	a.state.Lock()
	defer a.state.Unlock()
	a.presets = newPresetManager(dir)
}

// LoadPreset applies the named preset to the params.
func (a *Audio) LoadPreset(name string) error {
	a.state.Lock()
	defer a.state.Unlock()
	if a.presets == nil {
		return fmt.Errorf("no preset directory")
	}
	return a.presets.applyToParams(name, a.state.params)
}

// Presets lists the preset names from the index.
func (a *Audio) Presets() ([]string, error) {
	a.state.Lock()
	defer a.state.Unlock()
	if a.presets == nil {
		return nil, nil
	}
	return a.presets.getList()
}

// Step triggers a footstep now.
func (a *Audio) Step() {
	a.state.Lock()
	defer a.state.Unlock()
	a.state.params.applyTo(a.state.generator)
	a.state.generator.TriggerStep()
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start ...
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// GetLevel returns the RMS of the latest complete window.
func (a *Audio) GetLevel() float64 {
	a.state.Lock()
	defer a.state.Unlock()
	return a.state.rms.Value()
}

// GetFFT returns the magnitude spectrum of the latest fftSize samples.
func (a *Audio) GetFFT() []float64 {
	a.state.Lock()
	// out:       | 4 | 1 | 2 | 3 |
	// offset:        ^
	// fftResult: | 1 | 2 | 3 | 4 |
	// return:    |<----->|
	offset := a.state.pos % fftSize
	copy(a.fftResult, a.state.out[offset:])
	copy(a.fftResult[fftSize-offset:], a.state.out[:offset])
	a.state.Unlock()
	a.window.Apply(a.fftResult)
	a.fft.CalcAbs(a.fftResult)
	for i, value := range a.fftResult {
		a.fftResult[i] = value * 2 / fftSize
	}
	return a.fftResult[:fftSize/2]
}
