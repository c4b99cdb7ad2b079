package noise

import (
	"math"
	"math/rand"
)

// Generator produces deterministic gradient noise for a given seed
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// NewGenerator creates a new noise generator with the given seed
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the generator seed
func (g *Generator) Seed() int64 {
	return g.seed
}

// RandomRange returns a random float in range [min, max)
func (g *Generator) RandomRange(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// Perlin2D generates 2D Perlin noise in roughly [-1, 1].
// A period > 0 makes the lattice repeat every period units on both axes.
func (g *Generator) Perlin2D(x, y float64, period int, octave int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)

	// Interpolation factors
	fx := x - x0
	fy := y - y0
	sx := smoothstep(fx)
	sy := smoothstep(fy)

	ix0, iy0 := int(x0), int(y0)
	ix1, iy1 := ix0+1, iy0+1
	if period > 0 {
		ix0, iy0 = wrap(ix0, period), wrap(iy0, period)
		ix1, iy1 = wrap(ix1, period), wrap(iy1, period)
	}

	seed := int(g.seed + octave)
	g00 := gradient2D(hash(ix0, iy0, 0, seed))
	g10 := gradient2D(hash(ix1, iy0, 0, seed))
	g01 := gradient2D(hash(ix0, iy1, 0, seed))
	g11 := gradient2D(hash(ix1, iy1, 0, seed))

	dp00 := dot2D(g00[0], g00[1], fx, fy)
	dp10 := dot2D(g10[0], g10[1], fx-1, fy)
	dp01 := dot2D(g01[0], g01[1], fx, fy-1)
	dp11 := dot2D(g11[0], g11[1], fx-1, fy-1)

	v0 := lerp(dp00, dp10, sx)
	v1 := lerp(dp01, dp11, sx)
	return lerp(v0, v1, sy)
}

// FBM2D sums octaves of Perlin noise. With period > 0 every octave tiles,
// because lacunarity is forced to 2 and the period doubles per octave.
func (g *Generator) FBM2D(x, y float64, octaves int, lacunarity, gain float64, period int) float64 {
	return g.fbm(x, y, octaves, lacunarity, gain, period, 0)
}

func (g *Generator) fbm(x, y float64, octaves int, lacunarity, gain float64, period int, channel int64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	if period > 0 {
		lacunarity = 2
	}

	result := 0.0
	amplitude := 1.0
	frequency := 1.0
	max := 0.0
	p := period

	for i := 0; i < octaves; i++ {
		result += g.Perlin2D(x*frequency, y*frequency, p, channel*64+int64(i)) * amplitude
		max += amplitude
		amplitude *= gain
		frequency *= lacunarity
		if p > 0 {
			p *= 2
		}
	}

	return result / max
}

// Simplex2D generates 2D Simplex noise
func (g *Generator) Simplex2D(x, y float64) float64 {
	// Skew input space to determine simplex cell
	const F2 = 0.366025404 // 0.5 * (sqrt(3) - 1)
	const G2 = 0.211324865 // (3 - sqrt(3)) / 6

	s := (x + y) * F2
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * G2
	x0 := x - (i - t)
	y0 := y - (j - t)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + G2
	y1 := y0 - float64(j1) + G2
	x2 := x0 - 1.0 + 2.0*G2
	y2 := y0 - 1.0 + 2.0*G2

	seed := int(g.seed)
	corner := func(cx, cy int, dx, dy float64) float64 {
		t := 0.5 - dx*dx - dy*dy
		if t <= 0 {
			return 0
		}
		grad := gradient2D(hash(cx, cy, 0, seed))
		t *= t
		return t * t * dot2D(grad[0], grad[1], dx, dy)
	}

	n := corner(int(i), int(j), x0, y0) +
		corner(int(i)+i1, int(j)+j1, x1, y1) +
		corner(int(i)+1, int(j)+1, x2, y2)

	// 70 scales the sum to roughly [-1, 1]
	return 70.0 * n
}

// hash combines the coordinates and seed to create a unique hash
func hash(x, y, z, seed int) int {
	h := seed + x*374761393 + y*668265263 + z*374761393
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// gradient2D picks one of eight lattice gradients from a hash
func gradient2D(hash int) [2]float64 {
	switch hash & 7 {
	case 0:
		return [2]float64{1, 0}
	case 1:
		return [2]float64{-1, 0}
	case 2:
		return [2]float64{0, 1}
	case 3:
		return [2]float64{0, -1}
	case 4:
		return [2]float64{1, 1}
	case 5:
		return [2]float64{-1, 1}
	case 6:
		return [2]float64{1, -1}
	default:
		return [2]float64{-1, -1}
	}
}

func dot2D(x1, y1, x2, y2 float64) float64 {
	return x1*x2 + y1*y2
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// smoothstep is the improved Perlin fade: 6t^5 - 15t^4 + 10t^3
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
