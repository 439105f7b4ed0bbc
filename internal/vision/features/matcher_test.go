package features

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// texture draws random dark rectangles, which give plenty of corners.
func texture(w, h int, seed uint64) *image.NRGBA {
	img := imaging.New(w, h, color.White)
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < 60; i++ {
		x := rng.IntN(w - 20)
		y := rng.IntN(h - 20)
		r := image.Rect(x, y, x+5+rng.IntN(15), y+5+rng.IntN(15))
		shade := uint8(rng.IntN(120))
		draw.Draw(img, r, image.NewUniform(color.NRGBA{R: shade, G: shade, B: shade, A: 255}), image.Point{}, draw.Src)
	}
	return img
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.FeatureMatcher = (*Matcher)(nil)
}

func TestMatch_Identical(t *testing.T) {
	img := texture(240, 240, 1)
	m := New(500, 0.75)

	res, err := m.Match(context.Background(), img, imaging.Clone(img))
	require.NoError(t, err)
	assert.True(t, res.Available)
	require.Greater(t, res.KeypointsLeft, 10)
	assert.Equal(t, res.KeypointsLeft, res.KeypointsRight)
	assert.Greater(t, res.Score, 0.5)
	assert.LessOrEqual(t, res.Score, 1.0)
	require.NotNil(t, res.Visualization)
	assert.Equal(t, 480, res.Visualization.Bounds().Dx())
}

func TestMatch_Blank(t *testing.T) {
	blank := imaging.New(200, 200, color.White)
	m := New(0, 0)

	res, err := m.Match(context.Background(), blank, texture(200, 200, 2))
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 0, res.KeypointsLeft)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0, res.GoodMatches)
	assert.Nil(t, res.Visualization)
}

func TestMatch_TinyImage(t *testing.T) {
	tiny := imaging.New(10, 10, color.Black)
	res, err := New(0, 0).Match(context.Background(), tiny, tiny)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
}

func TestMatch_NilImage(t *testing.T) {
	_, err := New(0, 0).Match(context.Background(), nil, texture(50, 50, 3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img := texture(100, 100, 4)
	_, err := New(0, 0).Match(ctx, img, img)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRatioMatches(t *testing.T) {
	left := []Descriptor{{0, 0, 0, 0}, {^uint64(0), 0, 0, 0}}
	right := []Descriptor{{0, 0, 0, 1}, {^uint64(0), 0, 0, 0}, {0xffff, 0xffff, 0, 0}}

	good := RatioMatches(left, right, 0.75)
	require.Len(t, good, 2)
	assert.Equal(t, Match{Left: 0, Right: 0, Distance: 1}, good[0])
	assert.Equal(t, Match{Left: 1, Right: 1, Distance: 0}, good[1])

	assert.Nil(t, RatioMatches(left, right[:1], 0.75))
}

func TestRatioMatches_Ambiguous(t *testing.T) {
	left := []Descriptor{{0, 0, 0, 0}}
	right := []Descriptor{{1, 0, 0, 0}, {2, 0, 0, 0}}
	assert.Empty(t, RatioMatches(left, right, 0.75))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0.5, Score(5, 10, 20))
	assert.Equal(t, 1.0, Score(30, 10, 20))
	assert.Equal(t, 0.0, Score(3, 0, 20))
}

func TestDescriptor_Hamming(t *testing.T) {
	a := Descriptor{0b1011, 0, 0, 1}
	b := Descriptor{0b0001, 0, 0, 0}
	assert.Equal(t, 3, a.Hamming(b))
	assert.Equal(t, 0, a.Hamming(a))
}

func TestLevelQuotas(t *testing.T) {
	q := levelQuotas(2000, 3, 1.2)
	require.Len(t, q, 3)
	assert.Equal(t, 2000, q[0]+q[1]+q[2])
	assert.Greater(t, q[0], q[1])
	assert.Greater(t, q[1], q[2])
}

func TestHasArc(t *testing.T) {
	var ring [16]int
	for i := 12; i < 21; i++ {
		ring[i%16] = 1
	}
	assert.True(t, hasArc(ring, func(v int) bool { return v == 1 }))

	ring = [16]int{}
	for i := 0; i < 8; i++ {
		ring[i] = 1
	}
	assert.False(t, hasArc(ring, func(v int) bool { return v == 1 }))
}
