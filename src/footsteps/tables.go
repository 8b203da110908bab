package footsteps

import "github.com/jinjor/footsteps/src/dsp"

// ----- Kinds ----- //

// Shoe indices. Out-of-range values behave as Trainer.
const (
	Trainer = iota
	HighHeel
	Oxford
	WorkBoot
)

// Surface indices. An out-of-range surface keeps the current resonances and
// drops the surface envelope and the crunch layer.
const (
	Wood = iota
	Concrete
	Dirt
	Grass
	HollowWood
	Metal
)

// Terrain indices. Out-of-range values behave as Flat.
const (
	Flat = iota
	Stairs
)

var shoeNames = []string{"trainer", "highheel", "oxford", "workboot"}
var surfaceNames = []string{"wood", "concrete", "dirt", "grass", "hollowwood", "metal"}
var terrainNames = []string{"flat", "stairs"}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return names[0]
	}
	return names[i]
}

func indexOf(names []string, s string) (int, bool) {
	for i, name := range names {
		if name == s {
			return i, true
		}
	}
	return 0, false
}

// ShoeName ...
func ShoeName(i int) string { return nameOf(shoeNames, i) }

// SurfaceName ...
func SurfaceName(i int) string { return nameOf(surfaceNames, i) }

// TerrainName ...
func TerrainName(i int) string { return nameOf(terrainNames, i) }

// ShoeFromName ...
func ShoeFromName(s string) (int, bool) { return indexOf(shoeNames, s) }

// SurfaceFromName ...
func SurfaceFromName(s string) (int, bool) { return indexOf(surfaceNames, s) }

// TerrainFromName ...
func TerrainFromName(s string) (int, bool) { return indexOf(terrainNames, s) }

// NumShoes ...
const NumShoes = 4

// NumSurfaces ...
const NumSurfaces = 6

// ----- Shoe ----- //

// ShoeEnvelope holds the heel and ball transient shape of a shoe.
// Gains are linear, sustains are levels and times are in milliseconds.
type ShoeEnvelope struct {
	HeelGain       float64
	HeelAttack     float64
	HeelSustain    float64
	HeelDecay      float64
	HeelRelease    float64
	StepSeparation float64
	BallGain       float64
	BallAttack     float64
	BallSustain    float64
	BallDecay      float64
	BallRelease    float64
}

var shoes = []ShoeEnvelope{
	Trainer:  {1, 1, 0, 10, 0.1, 40, 0.5, 1, 0, 20, 0.1},
	HighHeel: {1, 0.1, 0, 1, 0.1, 20, 0.8, 2, 0, 5, 0.1},
	Oxford:   {1, 0.1, 0, 3, 0.1, 40, 1, 1, 0.2, 5, 20},
	WorkBoot: {1, 1.27, 0, 21.4, 0.1, 40, 0.429, 12.7, 0, 37.5, 0.1},
}

func shoeFor(i int) ShoeEnvelope {
	if i < 0 || i >= len(shoes) {
		return shoes[Trainer]
	}
	return shoes[i]
}

// addVariation jitters every field of s by a fixed relative amount.
func addVariation(src dsp.Source, s ShoeEnvelope) ShoeEnvelope {
	return ShoeEnvelope{
		HeelGain:       dsp.Vary(src, s.HeelGain, 0.02),
		HeelAttack:     dsp.Vary(src, s.HeelAttack, 0.05),
		HeelSustain:    dsp.Vary(src, s.HeelSustain, 0.01),
		HeelDecay:      dsp.Vary(src, s.HeelDecay, 0.1),
		HeelRelease:    dsp.Vary(src, s.HeelRelease, 0.05),
		StepSeparation: dsp.Vary(src, s.StepSeparation, 0.05),
		BallGain:       dsp.Vary(src, s.BallGain, 0.15),
		BallAttack:     dsp.Vary(src, s.BallAttack, 0.1),
		BallSustain:    dsp.Vary(src, s.BallSustain, 0.01),
		BallDecay:      dsp.Vary(src, s.BallDecay, 0.1),
		BallRelease:    dsp.Vary(src, s.BallRelease, 0.05),
	}
}

// ----- Surface ----- //

// SurfaceEnvelope is added on top of the shoe envelope (milliseconds and
// levels).
type SurfaceEnvelope struct {
	HeelAttack  float64
	HeelSustain float64
	HeelDecay   float64
	HeelRelease float64
	BallAttack  float64
	BallSustain float64
	BallDecay   float64
	BallRelease float64
}

// crunch describes the granular debris layer of a surface.
type crunch struct {
	enabled bool
	freq1   float64 // Hz
	freq2   float64 // Hz
	delay1  float64 // ms
	delay2  float64 // ms
	out     float64
}

type surface struct {
	mode       dsp.Mode
	filtersOut float64
	envelope   SurfaceEnvelope
	crunch     crunch
}

var surfaces = []surface{
	Wood: {
		mode: dsp.Mode{
			Count: 9,
			Types: []dsp.FilterType{dsp.Lowpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass},
			Freqs: []float64{80, 95, 134, 139, 154, 201, 123, 156, 189},
			Qs:    []float64{20, 20, 20, 20, 20, 15, 10, 20, 20},
			Gains: []float64{0.2, 0.1, 0.1, 0.1, 0.1, 0.2, 0.2, 0.2, 0.2},
		},
		filtersOut: 1.6,
	},
	Concrete: {
		mode: dsp.Mode{
			Count: 5,
			Types: []dsp.FilterType{dsp.Lowpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass},
			Freqs: []float64{140, 234, 380, 1450, 2156},
			Qs:    []float64{10, 10, 10, 10, 10},
			Gains: []float64{0.1, 0.2, 0.1, 0.05, 0.05},
		},
		filtersOut: 0.8,
		crunch:     crunch{enabled: true, freq1: 1000, freq2: 200, delay1: 20, delay2: 4, out: 0.1},
	},
	Dirt: {
		mode: dsp.Mode{
			Count: 4,
			Types: []dsp.FilterType{dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Lowpass},
			Freqs: []float64{180, 300, 650, 2200},
			Qs:    []float64{2, 2, 2, 1},
			Gains: []float64{0.6, 0.1, 0.1, 0.1},
		},
		filtersOut: 0.1,
		envelope:   SurfaceEnvelope{20, 0, 3, 20, 5, 0.15, 3, 20},
		crunch:     crunch{enabled: true, freq1: 200, freq2: 50, delay1: 20, delay2: 4, out: 0.25},
	},
	Grass: {
		mode: dsp.Mode{
			Count: 3,
			Types: []dsp.FilterType{dsp.Highpass, dsp.Bandpass, dsp.Lowpass},
			Freqs: []float64{890, 2023, 3000},
			Qs:    []float64{3.5, 2, 2},
			Gains: []float64{0.05, 0.05, 0.05},
		},
		filtersOut: 0.1,
		envelope:   SurfaceEnvelope{50, 0, 10, 20, 5, 0.15, 50, 20},
		crunch:     crunch{enabled: true, freq1: 1500, freq2: 800, delay1: 20, delay2: 4, out: 0.005},
	},
	HollowWood: {
		mode: dsp.Mode{
			Count: 4,
			Types: []dsp.FilterType{dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass},
			Freqs: []float64{109, 230, 352, 413},
			Qs:    []float64{10, 10, 10, 10},
			Gains: []float64{1, 1, 1, 1},
		},
		filtersOut: 0.6,
	},
	Metal: {
		mode: dsp.Mode{
			Count: 7,
			Types: []dsp.FilterType{dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass, dsp.Bandpass},
			Freqs: []float64{124, 218, 615, 1098, 1250, 1764, 2682},
			Qs:    []float64{2, 60, 60, 60, 60, 60, 60},
			Gains: []float64{1, 0.8, 0.65, 0.5, 0.35, 0.2, 0.05},
		},
		filtersOut: 0.6,
		envelope:   SurfaceEnvelope{0, 0.1, 0, 10, 0, 0.1, 0, 10},
	},
}

func surfaceFor(i int) (surface, bool) {
	if i < 0 || i >= len(surfaces) {
		return surface{}, false
	}
	return surfaces[i], true
}

// Mode returns the filter bank resonances of surface i, or those of Wood
// when i is out of range.
func Mode(i int) dsp.Mode {
	s, ok := surfaceFor(i)
	if !ok {
		return surfaces[Wood].mode
	}
	return s.mode
}

// ----- Pace ----- //

// paceModifiers maps a pace in steps per minute to the heel-to-ball roll
// speed (percent) and the heel and ball gain ratios.
func paceModifiers(pace float64) (rollSpeed float64, heelToBall [2]float64) {
	switch {
	case pace < 75: // creeping
		return 22 - (4.0/15)*pace, [2]float64{0.5, 0.4}
	case pace < 120: // walking
		return (255 - pace) / 90, [2]float64{1, 0.8}
	default: // running
		return 1.5, [2]float64{1, 0.63}
	}
}
