package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/linalg"
)

// initHe draws every weight from N(0, sqrt(2/fan_in)) and zeroes the biases.
//
// He initialization keeps activation variance roughly constant across
// rectifier layers.
func (n *Network[T]) initHe(rng *rand.Rand) {
	for i := range n.layers {
		l := &n.layers[i]
		HeNormal(rng, l.Weights.Data(), l.Inputs())
		l.Biases.Zero()
	}
}

// HeNormal fills data with He-initialized values for a layer with fanIn
// inputs.
func HeNormal[T linalg.Float](rng *rand.Rand, data []T, fanIn int) {
	stddev := math.Sqrt(2.0 / float64(fanIn))
	for i := range data {
		data[i] = T(boxMuller(rng) * stddev)
	}
}

// boxMuller returns one standard normal draw built from two uniform draws.
// The degenerate log(0) case yields a non-finite value, which is replaced by 0.
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0
	}
	return z
}
