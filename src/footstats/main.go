package main

import (
	"context"
	"flag"
	"log"
	"math"
	"math/rand"

	"github.com/jinjor/footsteps/src/dsp"
	"github.com/jinjor/footsteps/src/footsteps"
	"golang.org/x/sync/errgroup"
)

var (
	seconds    = flag.Float64("seconds", 2, "length of each render")
	pace       = flag.Float64("pace", 90, "steps per minute")
	seed       = flag.Int64("seed", 1, "random seed")
	sampleRate = flag.Int("rate", 48000, "sample rate")
	terrain    = flag.String("terrain", "flat", "flat or stairs")
)

type stats struct {
	peak    float64
	rms     float64
	clipped int
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	terrainKind, ok := footsteps.TerrainFromName(*terrain)
	if !ok {
		log.Fatalf("unknown terrain %q\n", *terrain)
	}
	frames := int(*seconds * float64(*sampleRate))
	results := make([][]stats, footsteps.NumShoes)
	for i := range results {
		results[i] = make([]stats, footsteps.NumSurfaces)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for shoe := 0; shoe < footsteps.NumShoes; shoe++ {
		for surface := 0; surface < footsteps.NumSurfaces; surface++ {
			shoe, surface := shoe, surface
			g.Go(func() error {
				src := rand.New(rand.NewSource(*seed + int64(shoe*footsteps.NumSurfaces+surface)))
				gen := footsteps.NewGenerator(src)
				gen.SetShoeType(shoe)
				gen.SetSurfaceType(surface)
				gen.SetTerrain(terrainKind)
				gen.SetPace(*pace)
				gen.PrepareModel(*sampleRate)
				s, err := render(ctx, gen, frames)
				if err != nil {
					return err
				}
				results[shoe][surface] = s
				log.Printf("rendered %s on %s\n", footsteps.ShoeName(shoe), footsteps.SurfaceName(surface))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	for shoe, row := range results {
		for surface, s := range row {
			log.Printf("%-9s %-11s peak %6.1f dB  max rms %6.1f dB  clipped %d\n",
				footsteps.ShoeName(shoe), footsteps.SurfaceName(surface), toDB(s.peak), toDB(s.rms), s.clipped)
		}
	}
}

// render runs the generator in host-sized blocks.
func render(ctx context.Context, gen *footsteps.Generator, frames int) (stats, error) {
	var s stats
	rms := dsp.NewRMS(dsp.DefaultRMSWindow)
	buf := make([]float64, 1024)
	for done := 0; done < frames; done += len(buf) {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if frames-done < len(buf) {
			buf = buf[:frames-done]
		}
		gen.ExecuteModel(buf)
		for _, v := range buf {
			abs := math.Abs(v)
			s.peak = math.Max(s.peak, abs)
			if abs >= 0.5 {
				s.clipped++
			}
			s.rms = math.Max(s.rms, rms.ProcessSample(v))
		}
	}
	return s, nil
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
