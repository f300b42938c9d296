package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixtile-ml/mixtile/internal/backend/cpu"
	"github.com/mixtile-ml/mixtile/internal/tensor"
)

func rawFull(t *testing.T, shape tensor.Shape, value float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = value
	}
	return raw
}

func TestCondTensorVariants(t *testing.T) {
	assert.True(t, CondTensor{}.IsZero())
	assert.Nil(t, CondTensor{}.Primary())

	single := rawFull(t, tensor.Shape{1, 4}, 1)
	simple := SimpleCond(single)
	assert.False(t, simple.IsZero())
	assert.Same(t, single, simple.Primary())

	first := rawFull(t, tensor.Shape{1, 4}, 2)
	perStep := PerStepCond([]*tensor.RawTensor{first, rawFull(t, tensor.Shape{1, 4}, 3)})
	assert.False(t, perStep.IsZero())
	assert.Same(t, first, perStep.Primary())

	assert.True(t, PerStepCond(nil).IsZero())
}

func TestCondTensorConcatWithSimple(t *testing.T) {
	backend := cpu.New()
	cond := SimpleCond(rawFull(t, tensor.Shape{1, 2}, 1))
	uncond := SimpleCond(rawFull(t, tensor.Shape{1, 2}, 0))

	joint := cond.ConcatWith(uncond, backend)
	out := joint.Primary()
	require.True(t, out.Shape().Equal(tensor.Shape{2, 2}))

	// [uncond; cond] layout: zeros first, ones second.
	data := out.AsFloat32()
	assert.Equal(t, []float32{0, 0, 1, 1}, data)
}

func TestCondTensorConcatWithPerStep(t *testing.T) {
	backend := cpu.New()
	cond := PerStepCond([]*tensor.RawTensor{
		rawFull(t, tensor.Shape{1, 2}, 1),
		rawFull(t, tensor.Shape{1, 2}, 2),
	})
	uncond := PerStepCond([]*tensor.RawTensor{
		rawFull(t, tensor.Shape{1, 2}, -1),
		rawFull(t, tensor.Shape{1, 2}, -2),
	})

	joint := cond.ConcatWith(uncond, backend)
	out := joint.Primary()
	require.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{-1, -1, 1, 1}, out.AsFloat32())
}

func TestCondTensorConcatVariantMismatchPanics(t *testing.T) {
	backend := cpu.New()
	simple := SimpleCond(rawFull(t, tensor.Shape{1, 2}, 1))
	perStep := PerStepCond([]*tensor.RawTensor{rawFull(t, tensor.Shape{1, 2}, 0)})

	assert.Panics(t, func() {
		simple.ConcatWith(perStep, backend)
	})
}

func TestTileConditioningSlicesSpatialConcat(t *testing.T) {
	backend := cpu.New()
	canvasH, canvasW := 4, 8

	// Canvas-sized image conditioning: left half zeros, right half ones.
	img, err := tensor.NewRaw(tensor.Shape{1, 1, canvasH, canvasW}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	data := img.AsFloat32()
	for y := 0; y < canvasH; y++ {
		for x := canvasW / 2; x < canvasW; x++ {
			data[y*canvasW+x] = 1
		}
	}

	attn := rawFull(t, tensor.Shape{1, 3, 5}, 7)
	cond := &Conditioning{
		Concat:    SimpleCond(img),
		CrossAttn: SimpleCond(attn),
	}

	regions := []tensor.Region{
		tensor.NewRegion(0, 0, 4, 4),
		tensor.NewRegion(4, 0, 8, 4),
	}
	out := tileConditioning(cond, regions, canvasH, canvasW, backend)
	require.NotNil(t, out)

	// Concat sliced per tile and batched: first tile all zeros, second all ones.
	concat := out.Concat.Primary()
	require.True(t, concat.Shape().Equal(tensor.Shape{2, 1, 4, 4}))
	concatData := concat.AsFloat32()
	for i := 0; i < 16; i++ {
		assert.Equal(t, float32(0), concatData[i], "tile 0 element %d", i)
		assert.Equal(t, float32(1), concatData[16+i], "tile 1 element %d", i)
	}

	// CrossAttn replicated once per tile.
	cross := out.CrossAttn.Primary()
	require.True(t, cross.Shape().Equal(tensor.Shape{2, 3, 5}))
	for i, v := range cross.AsFloat32() {
		assert.Equal(t, float32(7), v, "cross attn element %d", i)
	}
}

func TestTileConditioningNonSpatialConcatUsedWhole(t *testing.T) {
	backend := cpu.New()

	// Conditioning whose spatial dims do not match the canvas is batched
	// as-is, without slicing.
	img := rawFull(t, tensor.Shape{1, 1, 2, 2}, 3)
	cond := &Conditioning{Concat: SimpleCond(img)}

	regions := []tensor.Region{tensor.NewRegion(0, 0, 4, 4), tensor.NewRegion(4, 0, 8, 4)}
	out := tileConditioning(cond, regions, 4, 8, backend)
	require.NotNil(t, out)
	require.True(t, out.Concat.Primary().Shape().Equal(tensor.Shape{2, 1, 2, 2}))
}

func TestTileConditioningNil(t *testing.T) {
	assert.Nil(t, tileConditioning(nil, nil, 4, 8, cpu.New()))
}
