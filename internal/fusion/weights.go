// Package fusion implements seam-free recombination of per-tile denoising
// predictions over a shared latent canvas.
//
// Each tile's prediction is tapered by a Gaussian weight kernel and
// accumulated into a canvas-sized buffer; a per-pixel rescale factor (the
// reciprocal of the summed kernel weights) normalizes overlapping
// contributions back to unity. User-declared custom regions carry their own
// conditioning and blend multiplier and add into the same buffer.
package fusion

import (
	"fmt"
	"math"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// kernelVariance is the fixed variance parameter of the tile taper.
// The Gaussian tails it produces span many orders of magnitude, which is
// why the rescale pass is mandatory before the kernels are usable.
const kernelVariance = 0.01

// GaussianKernel returns an h x w weight kernel that tapers a tile's
// influence toward its edges: the outer product of a vertical and a
// horizontal Gaussian density, peaked at the tile center.
//
// The density is f(x, mid) = exp(-(x-mid)^2 / (w^2 * 2 * 0.01)) / sqrt(2*pi*0.01)
// with mid = (w-1)/2 horizontally and mid = h/2 vertically. Note that the
// horizontal spread term w^2 is reused for the vertical axis; this
// asymmetry is inherited from the reference algorithm and preserved for
// output parity.
//
// Every entry is strictly positive. The kernel is materialized with the
// given dtype and device tag so it can multiply the data it will scale.
func GaussianKernel(w, h int, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid kernel size %dx%d (must be positive)", w, h)
	}

	norm := 1 / math.Sqrt(2*math.Pi*kernelVariance)
	denom := float64(w) * float64(w) * 2 * kernelVariance

	f := func(x, mid float64) float64 {
		return math.Exp(-(x-mid)*(x-mid)/denom) * norm
	}

	// midpoint (w-1)/2 because indices run from 0 to w-1
	xProbs := make([]float64, w)
	for x := 0; x < w; x++ {
		xProbs[x] = f(float64(x), float64(w-1)/2)
	}
	yProbs := make([]float64, h)
	for y := 0; y < h; y++ {
		yProbs[y] = f(float64(y), float64(h)/2)
	}

	kernel, err := tensor.NewRaw(tensor.Shape{h, w}, dtype, device)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case tensor.Float32:
		data := kernel.AsFloat32()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				data[y*w+x] = float32(yProbs[y] * xProbs[x])
			}
		}
	case tensor.Float64:
		data := kernel.AsFloat64()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				data[y*w+x] = yProbs[y] * xProbs[x]
			}
		}
	default:
		return nil, fmt.Errorf("unsupported kernel dtype %s", dtype)
	}

	return kernel, nil
}
