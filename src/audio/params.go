package audio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jinjor/footsteps/src/dsp"
	"github.com/jinjor/footsteps/src/footsteps"
)

// ----- Params ----- //

type params struct {
	shoe       int
	surface    int
	terrain    int
	pace       float64 // steps per minute
	firmness   float64 // 0-1
	steadiness float64 // 0-1
	automated  bool
}

func newParams() *params {
	return &params{
		shoe:       footsteps.Trainer,
		surface:    footsteps.Wood,
		terrain:    footsteps.Flat,
		pace:       60,
		firmness:   0,
		steadiness: 0.5,
		automated:  true,
	}
}

type paramsJSON struct {
	Shoe       string  `json:"shoe"`
	Surface    string  `json:"surface"`
	Terrain    string  `json:"terrain"`
	Pace       float64 `json:"pace"`
	Firmness   float64 `json:"firmness"`
	Steadiness float64 `json:"steadiness"`
	Automated  bool    `json:"automated"`
}

// applyJSON leaves p untouched when data is malformed.
func (p *params) applyJSON(data json.RawMessage) error {
	j := p.json()
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("failed to apply JSON to params: %w", err)
	}
	shoe, err := parseKind(j.Shoe, footsteps.ShoeFromName)
	if err != nil {
		return err
	}
	surface, err := parseKind(j.Surface, footsteps.SurfaceFromName)
	if err != nil {
		return err
	}
	terrain, err := parseKind(j.Terrain, footsteps.TerrainFromName)
	if err != nil {
		return err
	}
	p.shoe = shoe
	p.surface = surface
	p.terrain = terrain
	p.pace = j.Pace
	p.firmness = j.Firmness
	p.steadiness = j.Steadiness
	p.automated = j.Automated
	return nil
}

func (p *params) json() paramsJSON {
	return paramsJSON{
		Shoe:       footsteps.ShoeName(p.shoe),
		Surface:    footsteps.SurfaceName(p.surface),
		Terrain:    footsteps.TerrainName(p.terrain),
		Pace:       p.pace,
		Firmness:   p.firmness,
		Steadiness: p.steadiness,
		Automated:  p.automated,
	}
}

func (p *params) toJSON() json.RawMessage {
	j := p.json()
	return toRawMessage(&j)
}

func (p *params) set(key string, value string) error {
	switch key {
	case "shoe":
		kind, err := parseKind(value, footsteps.ShoeFromName)
		if err != nil {
			return err
		}
		p.shoe = kind
	case "surface":
		kind, err := parseKind(value, footsteps.SurfaceFromName)
		if err != nil {
			return err
		}
		p.surface = kind
	case "terrain":
		kind, err := parseKind(value, footsteps.TerrainFromName)
		if err != nil {
			return err
		}
		p.terrain = kind
	case "pace", "firmness", "steadiness":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		p.setFloat(key, value)
	case "automated":
		value, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid automated: %w", err)
		}
		p.automated = value
	default:
		return fmt.Errorf("unknown param %v", key)
	}
	return nil
}

// adjust moves a continuous param by delta, keeping it in range.
func (p *params) adjust(key string, delta float64) error {
	switch key {
	case "pace":
		p.setFloat(key, p.pace+delta)
	case "firmness":
		p.setFloat(key, p.firmness+delta)
	case "steadiness":
		p.setFloat(key, p.steadiness+delta)
	default:
		return fmt.Errorf("cannot adjust %v", key)
	}
	return nil
}

func (p *params) setFloat(key string, value float64) {
	switch key {
	case "pace":
		p.pace = dsp.Clamp(value, minPace, maxPace)
	case "firmness":
		p.firmness = dsp.Clamp(value, 0, 1)
	case "steadiness":
		p.steadiness = dsp.Clamp(value, 0, 1)
	}
}

// applyTo pushes every param into g. The generator ignores values it
// already holds.
func (p *params) applyTo(g *footsteps.Generator) {
	g.SetShoeType(p.shoe)
	g.SetSurfaceType(p.surface)
	g.SetTerrain(p.terrain)
	g.SetPace(p.pace)
	g.SetFirmness(p.firmness)
	g.SetSteadiness(p.steadiness)
	g.SetAutomated(p.automated)
}

// parseKind accepts a name or an index. Indexes are passed through as is.
func parseKind(value string, fromName func(string) (int, bool)) (int, error) {
	if i, ok := fromName(value); ok {
		return i, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("unknown kind %q", value)
	}
	return i, nil
}
