package features

import (
	"image"
	"math"
	"math/bits"
	"math/rand/v2"
)

// Descriptor is a 256-bit binary descriptor.
type Descriptor [4]uint64

// Hamming returns the number of differing bits.
func (d Descriptor) Hamming(o Descriptor) int {
	return bits.OnesCount64(d[0]^o[0]) + bits.OnesCount64(d[1]^o[1]) +
		bits.OnesCount64(d[2]^o[2]) + bits.OnesCount64(d[3]^o[3])
}

type pair struct {
	x1, y1, x2, y2 float64
}

// pattern is the fixed test-pair layout shared by every descriptor.
var pattern = buildPattern()

func buildPattern() [256]pair {
	// Fixed seed: descriptors from different runs must be comparable.
	rng := rand.New(rand.NewPCG(0x5eed, 0x0bb))
	sigma := float64(2*patchRadius+1) / 5
	sample := func() float64 {
		for {
			v := rng.NormFloat64() * sigma
			if math.Abs(v) <= patchRadius {
				return v
			}
		}
	}
	var p [256]pair
	for i := range p {
		p[i] = pair{x1: sample(), y1: sample(), x2: sample(), y2: sample()}
	}
	return p
}

// describe computes the steered BRIEF descriptor on a smoothed level.
func describe(smooth *image.Gray, kp Keypoint) Descriptor {
	sin, cos := math.Sincos(kp.Angle)
	sampleAt := func(px, py float64) int {
		rx := int(math.Round(cos*px - sin*py))
		ry := int(math.Round(sin*px + cos*py))
		return at(smooth, kp.lx+rx, kp.ly+ry)
	}

	var d Descriptor
	for i, p := range pattern {
		if sampleAt(p.x1, p.y1) < sampleAt(p.x2, p.y2) {
			d[i/64] |= 1 << (uint(i) % 64)
		}
	}
	return d
}

// Extract detects keypoints and computes their descriptors.
func Extract(img image.Image, opts DetectorOptions) ([]Keypoint, []Descriptor) {
	kps, levels := detect(img, opts)
	descs := make([]Descriptor, len(kps))
	for i, kp := range kps {
		descs[i] = describe(levels[kp.Level].smooth, kp)
	}
	return kps, descs
}
