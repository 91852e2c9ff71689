// Package mockfeed generates deterministic synthetic USGS feed entries for
// demos and tests.
package mockfeed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
)

var (
	places = []string{
		"Ridgecrest, CA", "Anza, CA", "Cobb, CA", "Pahala, Hawaii", "Anchorage, Alaska",
		"Hengchun, Taiwan", "Ovalle, Chile", "Kokopo, Papua New Guinea", "Tobelo, Indonesia",
		"Petrolia, CA", "Lone Pine, CA", "Volcano, Hawaii",
	}
	regions = []string{
		"Fiji region", "South Sandwich Islands region", "Mid-Indian Ridge",
		"Kermadec Islands region", "Gulf of Alaska",
	}
	compass = []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
)

// Generator produces a reproducible sequence of features for a seed.
type Generator struct {
	rng   *rand.Rand
	start time.Time
	seq   int
}

// New creates a generator whose events all occur before start.
func New(seed uint64, start time.Time) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		start: start,
	}
}

// Next returns the next synthetic feature.
func (g *Generator) Next() domain.Feature {
	g.seq++
	id := fmt.Sprintf("mk%08d", g.seq)

	// Most quakes are small: an exponential tail keeps large ones rare.
	mag := math.Round((g.rng.ExpFloat64()*1.1-0.4)*100) / 100
	if mag > 9.6 {
		mag = 9.6
	}

	occurred := g.start.Add(-time.Duration(g.seq) * time.Duration(g.rng.IntN(3600)+60) * time.Second)
	q, err := domain.NewQuake(id, mag, g.place(), occurred.UnixMilli(),
		"https://earthquake.usgs.gov/earthquakes/eventpage/"+id)
	if err != nil {
		// mag is always finite; NewQuake cannot fail here.
		panic(err)
	}
	return domain.NewFeature(q)
}

// Collection returns a feed document with n features.
func (g *Generator) Collection(n int) domain.FeatureCollection {
	fc := domain.FeatureCollection{Type: "FeatureCollection", Features: make([]domain.Feature, 0, n)}
	for range n {
		fc.Features = append(fc.Features, g.Next())
	}
	return fc
}

func (g *Generator) place() string {
	if g.rng.IntN(5) == 0 {
		return regions[g.rng.IntN(len(regions))]
	}
	km := g.rng.IntN(120) + 1
	return fmt.Sprintf("%dkm %s of %s", km, compass[g.rng.IntN(len(compass))], places[g.rng.IntN(len(places))])
}
