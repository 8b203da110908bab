package audio

import (
	"context"
	"log"

	"github.com/jinjor/footsteps/src/dsp"
	"github.com/jinjor/footsteps/src/footsteps"
	"gitlab.com/gomidi/rtmididrv"
)

// Control change numbers understood by AddMidiEvent.
const (
	ccPace       = 1 // mod wheel
	ccFirmness   = 2
	ccSteadiness = 3
	ccShoe       = 20
	ccSurface    = 21
	ccTerrain    = 22
	ccAutomated  = 64 // sustain pedal
)

// ListenToMidiIn forwards raw messages from MIDI input port until ctx is
// done. The channel is closed when listening stops.
func ListenToMidiIn(ctx context.Context, port int) <-chan []byte {
	ch := make(chan []byte, 1024)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		if port < 0 || port >= len(ins) {
			log.Printf("[WARN] MIDI IN %d not found\n", port)
			return
		}
		in := ins[port]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("[WARN] MIDI message dropped")
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

// AddMidiEvent handles one raw MIDI message. Note-on triggers a step and
// control changes move the params.
func (a *Audio) AddMidiEvent(data []byte) {
	if len(data) < 3 {
		return
	}
	switch data[0] >> 4 {
	case 9:
		if data[2] == 0 {
			return
		}
		log.Printf("got note-on: %v\n", data)
		a.Step()
	case 11:
		a.state.Lock()
		defer a.state.Unlock()
		applyControlChange(a.state.params, int(data[1]), float64(data[2]))
	}
}

func applyControlChange(p *params, cc int, value float64) {
	switch cc {
	case ccPace:
		p.setFloat("pace", dsp.Rescale(value, 30, 300, 0, 127))
	case ccFirmness:
		p.setFloat("firmness", dsp.Rescale(value, 0, 1, 0, 127))
	case ccSteadiness:
		p.setFloat("steadiness", dsp.Rescale(value, 0, 1, 0, 127))
	case ccShoe:
		p.shoe = int(dsp.Rescale(value, 0, footsteps.NumShoes-0.01, 0, 127))
	case ccSurface:
		p.surface = int(dsp.Rescale(value, 0, footsteps.NumSurfaces-0.01, 0, 127))
	case ccTerrain:
		if value >= 64 {
			p.terrain = footsteps.Stairs
		} else {
			p.terrain = footsteps.Flat
		}
	case ccAutomated:
		p.automated = value >= 64
	}
}
