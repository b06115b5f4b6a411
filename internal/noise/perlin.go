package noise

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Skew constants for 2D simplex-lattice gradient noise.
const (
	skewCx = 0.211324865405187  // (3 - sqrt(3)) / 6
	skewCy = 0.366025403784439  // (sqrt(3) - 1) / 2
	skewCz = -0.577350269189626 // 2*skewCx - 1
	skewCw = 0.024390243902439  // 1 / 41
)

// perlin evaluates the 2D gradient noise for one level on the horizontal
// plane; the vertical axis is ignored. Output is in [0,1].
func perlin(cells int, pos mgl32.Vec3, tile float32) float32 {
	s := tile * float32(cells)
	return gradient2(pos[0]*s, pos[2]*s)
}

func mod289(x float32) float32 {
	return x - math32.Floor(x/289)*289
}

func permute(x float32) float32 {
	return mod289((x*34 + 1) * x)
}

func glslFract(x float32) float32 {
	return x - math32.Floor(x)
}

// gradient2 is the analytic, table-free 2D simplex gradient noise commonly
// used in shaders, remapped from [-1,1] to [0,1].
func gradient2(vx, vy float32) float32 {
	sk := (vx + vy) * skewCy
	ix := math32.Floor(vx + sk)
	iy := math32.Floor(vy + sk)

	un := (ix + iy) * skewCx
	x0x := vx - ix + un
	x0y := vy - iy + un

	var i1x, i1y float32 = 0, 1
	if x0x > x0y {
		i1x, i1y = 1, 0
	}

	x1x := x0x - i1x + skewCx
	x1y := x0y - i1y + skewCx
	x2x := x0x + skewCz
	x2y := x0y + skewCz

	ix = mod289(ix)
	iy = mod289(iy)
	p := [3]float32{
		permute(permute(iy) + ix),
		permute(permute(iy+i1y) + ix + i1x),
		permute(permute(iy+1) + ix + 1),
	}

	m := [3]float32{
		max(0.5-(x0x*x0x+x0y*x0y), 0),
		max(0.5-(x1x*x1x+x1y*x1y), 0),
		max(0.5-(x2x*x2x+x2y*x2y), 0),
	}

	gx := [3]float32{x0x, x1x, x2x}
	gy := [3]float32{x0y, x1y, x2y}

	var dot float32
	for k := range 3 {
		mk := m[k] * m[k]
		mk *= mk

		x := 2*glslFract(p[k]*skewCw) - 1
		h := math32.Abs(x) - 0.5
		a0 := x - math32.Floor(x+0.5)

		mk *= 1.79284291400159 - 0.85373472095314*(a0*a0+h*h)
		dot += mk * (a0*gx[k] + h*gy[k])
	}
	return 130*dot*0.5 + 0.5
}
