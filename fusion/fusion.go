// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fusion provides the public API for seam-free recombination of
// per-tile denoising predictions over a shared latent canvas.
//
// Each tile's prediction is tapered by a Gaussian weight kernel and
// accumulated into a canvas-sized buffer; a per-pixel rescale factor
// normalizes overlapping contributions back to unity. User-declared custom
// regions carry their own conditioning and blend multiplier and add into
// the same buffer.
//
// Example:
//
//	layout, _ := tiling.NewLayout(128, 64, 64, 64, 16)
//	eng := fusion.NewEngine(backend, predict, fusion.Config{
//	    TileW:            layout.TileW,
//	    TileH:            layout.TileH,
//	    Batches:          layout.Batches(4),
//	    GlobalMultiplier: 1.0,
//	})
//	if err := eng.Setup(canvas.Shape(), canvas.DType()); err != nil {
//	    return err
//	}
//	for _, t := range timesteps {
//	    canvas, err = eng.Step(canvas, t, cond)
//	    ...
//	}
package fusion

import (
	"github.com/mixtile-ml/mixtile/internal/fusion"
	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// PredictFunc is the external denoising model: it maps a noisy tensor, a
// timestep tensor and a conditioning structure to a predicted-noise tensor
// of the same shape.
type PredictFunc = fusion.PredictFunc

// RegionForward produces a custom region's prediction from the region's own
// conditioning/unconditioning pair.
type RegionForward = fusion.RegionForward

// Conditioning is the structured conditioning a prediction call consumes.
type Conditioning = fusion.Conditioning

// CondTensor is a tagged conditioning value: either one tensor shared by
// every denoising step, or a per-step list of tensors.
type CondTensor = fusion.CondTensor

// CustomRegion is a user-declared canvas rectangle with its own
// conditioning and blend strength.
type CustomRegion = fusion.CustomRegion

// Config describes one generation run's tiling and blending.
type Config = fusion.Config

// Engine fuses per-tile denoising predictions into one canvas-shaped
// output per step.
type Engine = fusion.Engine

// State is the engine lifecycle state.
type State = fusion.State

// Engine lifecycle states.
const (
	StateUninitialized State = fusion.StateUninitialized
	StateReady         State = fusion.StateReady
)

// Interrupt is a cooperative cancellation flag polled between tile batches.
type Interrupt = fusion.Interrupt

// Hook installs and restores a model's prediction entry point.
type Hook = fusion.Hook

// Hookable is a model whose prediction entry point can be swapped out.
type Hookable = fusion.Hookable

// Option mutates an engine Config before construction.
type Option = fusion.Option

// NewEngine creates a fusion engine around an injected prediction function.
func NewEngine(b tensor.Backend, predict PredictFunc, cfg Config, opts ...Option) *Engine {
	return fusion.NewEngine(b, predict, cfg, opts...)
}

// WithProgress sets the per-batch progress callback.
func WithProgress(f func()) Option { return fusion.WithProgress(f) }

// WithInterrupt sets the cooperative cancellation flag.
func WithInterrupt(i *Interrupt) Option { return fusion.WithInterrupt(i) }

// WithRegionForward overrides the custom-region prediction adapter.
func WithRegionForward(f RegionForward) Option { return fusion.WithRegionForward(f) }

// WithGlobalMultiplier sets the uniform-pass blend strength.
func WithGlobalMultiplier(m float64) Option { return fusion.WithGlobalMultiplier(m) }

// SimpleCond wraps a single conditioning tensor.
func SimpleCond(raw *tensor.RawTensor) CondTensor {
	return fusion.SimpleCond(raw)
}

// PerStepCond wraps a per-timestep list of conditioning tensors.
func PerStepCond(list []*tensor.RawTensor) CondTensor {
	return fusion.PerStepCond(list)
}

// GuidedRegionForward adapts a PredictFunc into the classifier-guidance
// layout: duplicated batch, [uncond; cond] conditioning, conditioned half
// of the prediction returned.
func GuidedRegionForward(predict PredictFunc, b tensor.Backend) RegionForward {
	return fusion.GuidedRegionForward(predict, b)
}

// PlainRegionForward adapts a PredictFunc for sampler families without
// classifier guidance.
func PlainRegionForward(predict PredictFunc) RegionForward {
	return fusion.PlainRegionForward(predict)
}

// GaussianKernel returns an h x w weight kernel that tapers a tile's
// influence toward its edges.
func GaussianKernel(w, h int, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error) {
	return fusion.GaussianKernel(w, h, dtype, device)
}
