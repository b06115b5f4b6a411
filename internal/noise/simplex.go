package noise

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// simplexLevels holds one seeded generator per density level.
type simplexLevels [3]opensimplex.Noise

func newSimplexLevels(seed uint64) simplexLevels {
	var l simplexLevels
	for i := range l {
		l[i] = opensimplex.NewNormalized(int64(seed) + int64(i)*131)
	}
	return l
}

// eval samples level i in [0,1]. Unlike the Worley kind this is not
// periodic across the unit cube.
func (l simplexLevels) eval(i, cells int, pos mgl32.Vec3, tile float32) float32 {
	s := float64(tile) * float64(cells)
	return float32(l[i].Eval3(float64(pos[0])*s, float64(pos[1])*s, float64(pos[2])*s))
}
