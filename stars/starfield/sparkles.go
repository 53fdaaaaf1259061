package starfield

import (
	"math"
	"math/rand"
	"time"

	"constellations/stars/quarkgl"
)

// sparkleTag is the user data of the sparkle cloud. It carries no site.
type sparkleTag struct{}

// NewSparkles returns count white points uniform in a cube of side spread.
func NewSparkles(rng *rand.Rand, count int, spread float32) *quarkgl.Points {
	pos := make([]quarkgl.Vec3, count)
	for i := range pos {
		pos[i] = quarkgl.V3(
			(rng.Float32()-0.5)*spread,
			(rng.Float32()-0.5)*spread,
			(rng.Float32()-0.5)*spread,
		)
	}
	return &quarkgl.Points{
		Positions:     pos,
		Size:          0.7,
		Color:         quarkgl.RGB(0xFF, 0xFF, 0xFF),
		Opacity:       0.6,
		PickThreshold: 1,
		UserData:      sparkleTag{},
	}
}

// Twinkle sets the sparkle opacity for the elapsed time.
func Twinkle(p *quarkgl.Points, elapsed time.Duration) {
	if p == nil {
		return
	}
	ms := float64(elapsed.Milliseconds())
	p.Opacity = float32(0.6 + math.Sin(ms*0.002)*0.2)
}
