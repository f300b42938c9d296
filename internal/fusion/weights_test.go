package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

func TestGaussianKernelStrictlyPositive(t *testing.T) {
	kernel, err := GaussianKernel(64, 48, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	require.True(t, kernel.Shape().Equal(tensor.Shape{48, 64}))

	for i, v := range kernel.AsFloat64() {
		require.Greater(t, v, 0.0, "kernel element %d", i)
	}
}

func TestGaussianKernelHorizontalSymmetry(t *testing.T) {
	w, h := 32, 16
	kernel, err := GaussianKernel(w, h, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	// Horizontal midpoint (w-1)/2 centers the taper between the first and
	// last columns, so rows read the same in both directions.
	data := kernel.AsFloat64()
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			assert.InDelta(t, data[y*w+x], data[y*w+(w-1-x)], 1e-12,
				"row %d columns %d and %d", y, x, w-1-x)
		}
	}
}

func TestGaussianKernelVerticalMidpoint(t *testing.T) {
	w, h := 16, 16
	kernel, err := GaussianKernel(w, h, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	// The vertical midpoint is h/2, not (h-1)/2, so columns are not
	// mirror-symmetric: the peak row sits at y = h/2.
	data := kernel.AsFloat64()
	peak := 0
	for y := 1; y < h; y++ {
		if data[y*w] > data[peak*w] {
			peak = y
		}
	}
	assert.Equal(t, h/2, peak)
	assert.Greater(t, data[(h/2)*w], data[0], "peak row should outweigh the top row")
}

func TestGaussianKernelCenterOutweighsEdges(t *testing.T) {
	w, h := 64, 64
	kernel, err := GaussianKernel(w, h, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	data := kernel.AsFloat32()
	center := data[(h/2)*w+w/2]
	assert.Greater(t, center, data[0])
	assert.Greater(t, center, data[w-1])
	assert.Greater(t, center, data[(h-1)*w])
	assert.Greater(t, center, data[h*w-1])
}

func TestGaussianKernelMassGrowsWithOverlapArea(t *testing.T) {
	small, err := GaussianKernel(16, 16, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	large, err := GaussianKernel(32, 32, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	sum := func(raw *tensor.RawTensor) float64 {
		total := 0.0
		for _, v := range raw.AsFloat64() {
			total += v
		}
		return total
	}
	assert.Greater(t, sum(large), sum(small))
}

func TestGaussianKernelInvalidSize(t *testing.T) {
	_, err := GaussianKernel(0, 16, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
	_, err = GaussianKernel(16, -1, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
}
